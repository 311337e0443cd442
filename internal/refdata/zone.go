package refdata

import "errors"

// Zone is one of the six geopolitical zones. ZoneNational is a synthetic
// rollup scope, not a zone.
type Zone string

const (
	ZoneSouthEast    Zone = "SOUTH EAST"
	ZoneSouthWest    Zone = "SOUTH WEST"
	ZoneSouthSouth   Zone = "SOUTH SOUTH"
	ZoneNorthEast    Zone = "NORTH EAST"
	ZoneNorthWest    Zone = "NORTH WEST"
	ZoneNorthCentral Zone = "NORTH CENTRAL"

	ZoneNational Zone = "National"
)

// ErrUnknownState is returned when a state has no zone mapping.
var ErrUnknownState = errors.New("refdata: unknown state")

// Zones lists the six zones in the fixed bucket order used by analytics.
func Zones() []Zone {
	return []Zone{
		ZoneSouthEast,
		ZoneSouthWest,
		ZoneSouthSouth,
		ZoneNorthEast,
		ZoneNorthWest,
		ZoneNorthCentral,
	}
}

// IsZone reports whether value names one of the six zones.
func IsZone(value string) bool {
	switch Zone(value) {
	case ZoneSouthEast, ZoneSouthWest, ZoneSouthSouth,
		ZoneNorthEast, ZoneNorthWest, ZoneNorthCentral:
		return true
	default:
		return false
	}
}
