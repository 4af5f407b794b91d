package taxonomy

import "testing"

func TestNormaliseStopType(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"BCT", "busCoachTrolleyOnStreetPoint", true},
		{"RPL", "railPlatform", true},
		{"FTD", "ferryTerminalDockEntrance", true},
		{"busCoachTrolleyOnStreetPoint", "busCoachTrolleyOnStreetPoint", true},
		{"notAStopType", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, ok := NormaliseStopType(test.input)
			if ok != test.ok || got != test.want {
				t.Errorf("NormaliseStopType(%q) = %q, %v; want %q, %v", test.input, got, ok, test.want, test.ok)
			}
		})
	}
}

func TestNormaliseStopTypeIdempotent(t *testing.T) {
	for legacy, canonical := range legacyStopTypes {
		once, ok := NormaliseStopType(legacy)
		if !ok {
			t.Fatalf("legacy code %s rejected", legacy)
		}

		twice, ok := NormaliseStopType(once)
		if !ok || twice != canonical {
			t.Errorf("NormaliseStopType not idempotent for %s: %s -> %s", legacy, once, twice)
		}
	}
}

func TestNormaliseTimingStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"PPT", "principalPoint", true},
		{"principlePoint", "principalPoint", true},
		{"principalPoint", "principalPoint", true},
		{"OTH", "otherPoint", true},
		{"XYZ", "", false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, ok := NormaliseTimingStatus(test.input)
			if ok != test.ok || got != test.want {
				t.Errorf("NormaliseTimingStatus(%q) = %q, %v; want %q, %v", test.input, got, ok, test.want, test.ok)
			}
		})
	}
}

func TestNormaliseBusStopType(t *testing.T) {
	if got, ok := NormaliseBusStopType("MKD"); !ok || got != "marked" {
		t.Errorf("MKD = %q, %v", got, ok)
	}
	if got, ok := NormaliseBusStopType("HAR"); !ok || got != "hailAndRide" {
		t.Errorf("HAR = %q, %v", got, ok)
	}
	if _, ok := NormaliseBusStopType("ZZZ"); ok {
		t.Error("ZZZ accepted")
	}
}

func TestBankHolidayRegions(t *testing.T) {
	if !IsScottishBankHoliday("Jan2ndScotland") {
		t.Error("Jan2ndScotland not Scottish")
	}
	if !IsEnglishBankHoliday("LateSummerBankHolidayNotScotland") {
		t.Error("LateSummerBankHolidayNotScotland not English")
	}
	if !IsRetiredBankHoliday("AugustBankHolidayScotland") {
		t.Error("AugustBankHolidayScotland not retired")
	}
	if !KnownBankHoliday("ChristmasDay") {
		t.Error("ChristmasDay unknown")
	}
	if KnownBankHoliday("TalkLikeAPirateDay") {
		t.Error("TalkLikeAPirateDay accepted")
	}

	expected := ExpectedScottishHolidays()
	for _, name := range EnglishBankHolidays {
		for _, member := range expected {
			if member == name {
				t.Errorf("England only holiday %s in Scottish expected set", name)
			}
		}
	}
}
