package refdata

// stateZones maps every state (and the FCT) to its geopolitical zone.
var stateZones = map[string]Zone{
	"Abia":        ZoneSouthEast,
	"Anambra":     ZoneSouthEast,
	"Ebonyi":      ZoneSouthEast,
	"Enugu":       ZoneSouthEast,
	"Imo":         ZoneSouthEast,
	"Ekiti":       ZoneSouthWest,
	"Lagos":       ZoneSouthWest,
	"Ogun":        ZoneSouthWest,
	"Ondo":        ZoneSouthWest,
	"Osun":        ZoneSouthWest,
	"Oyo":         ZoneSouthWest,
	"Akwa Ibom":   ZoneSouthSouth,
	"Bayelsa":     ZoneSouthSouth,
	"Cross River": ZoneSouthSouth,
	"Delta":       ZoneSouthSouth,
	"Edo":         ZoneSouthSouth,
	"Rivers":      ZoneSouthSouth,
	"Adamawa":     ZoneNorthEast,
	"Bauchi":      ZoneNorthEast,
	"Borno":       ZoneNorthEast,
	"Gombe":       ZoneNorthEast,
	"Taraba":      ZoneNorthEast,
	"Yobe":        ZoneNorthEast,
	"Jigawa":      ZoneNorthWest,
	"Kaduna":      ZoneNorthWest,
	"Kano":        ZoneNorthWest,
	"Katsina":     ZoneNorthWest,
	"Kebbi":       ZoneNorthWest,
	"Sokoto":      ZoneNorthWest,
	"Zamfara":     ZoneNorthWest,
	"Benue":       ZoneNorthCentral,
	"FCT":         ZoneNorthCentral,
	"Kogi":        ZoneNorthCentral,
	"Kwara":       ZoneNorthCentral,
	"Nasarawa":    ZoneNorthCentral,
	"Niger":       ZoneNorthCentral,
	"Plateau":     ZoneNorthCentral,
}

// ZoneOf resolves the geopolitical zone for a state.
func ZoneOf(state string) (Zone, error) {
	zone, ok := stateZones[state]
	if !ok {
		return "", ErrUnknownState
	}
	return zone, nil
}

// States returns every known state name. Order is unspecified.
func States() []string {
	out := make([]string, 0, len(stateZones))
	for state := range stateZones {
		out = append(out, state)
	}
	return out
}
