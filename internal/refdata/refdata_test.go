package refdata

import (
	"errors"
	"testing"
	"time"
)

func TestZoneOfCoversAllStates(t *testing.T) {
	if len(stateZones) != 37 {
		t.Fatalf("expected 37 mapped states, got %d", len(stateZones))
	}
	perZone := map[Zone]int{}
	for _, state := range States() {
		zone, err := ZoneOf(state)
		if err != nil {
			t.Fatalf("zone of %s: %v", state, err)
		}
		perZone[zone]++
	}
	if perZone[ZoneNorthWest] != 7 {
		t.Fatalf("expected 7 north-west states, got %d", perZone[ZoneNorthWest])
	}
	if perZone[ZoneSouthEast] != 5 {
		t.Fatalf("expected 5 south-east states, got %d", perZone[ZoneSouthEast])
	}
}

func TestZoneOfLagos(t *testing.T) {
	zone, err := ZoneOf("Lagos")
	if err != nil {
		t.Fatalf("zone of Lagos: %v", err)
	}
	if zone != ZoneSouthWest {
		t.Fatalf("expected SOUTH WEST, got %s", zone)
	}
}

func TestZoneOfUnknownState(t *testing.T) {
	if _, err := ZoneOf("Atlantis"); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestParseProduct(t *testing.T) {
	for _, code := range []string{"AGO", "PMS", "DPK", "LPG", "ICE"} {
		if _, err := ParseProduct(code); err != nil {
			t.Fatalf("parse %s: %v", code, err)
		}
	}
	if _, err := ParseProduct("JET"); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestIntervalFrom(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		interval Interval
		want     time.Time
	}{
		{IntervalYesterday, time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC)},
		{IntervalOneWeek, time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC)},
		{IntervalOneMonth, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)},
		{IntervalSixMonths, time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)},
		{IntervalFiveYears, time.Date(2019, 3, 31, 12, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := tc.interval.From(now)
		if err != nil {
			t.Fatalf("%s: %v", tc.interval, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: expected %s, got %s", tc.interval, tc.want, got)
		}
	}

	if _, err := IntervalMax.From(now); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for MAX, got %v", err)
	}
	if !IntervalMax.Unbounded() {
		t.Fatal("MAX must be unbounded")
	}
}
