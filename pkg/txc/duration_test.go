package txc

import "testing"

func TestNormaliseDuration(t *testing.T) {
	for _, test := range []struct {
		Input    string
		Expected string
	}{
		{"PT2H75M", "PT3H15M0S"},
		{"PT0H90M", "PT1H30M0S"},
		{"PT125S", "PT0H2M5S"},
		{"PT3M", "PT0H3M0S"},
		{"PT0H0M0S", "PT0H0M0S"},
		{"", ""},
		{"not a duration", "not a duration"},
	} {
		t.Run(test.Input, func(t *testing.T) {
			normalised := NormaliseDuration(test.Input)
			if normalised != test.Expected {
				t.Errorf("NormaliseDuration(%q) = %q, expected %q", test.Input, normalised, test.Expected)
			}

			again := NormaliseDuration(normalised)
			if again != normalised {
				t.Errorf("NormaliseDuration is not idempotent: %q -> %q", normalised, again)
			}
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	for _, test := range []struct {
		Input   string
		Seconds int
		OK      bool
	}{
		{"PT3M", 180, true},
		{"PT1H2M3S", 3723, true},
		{"PT0H0M0S", 0, true},
		{"", 0, true},
		{"P1Y", 0, false},
		{"garbage", 0, false},
	} {
		seconds, ok := DurationSeconds(test.Input)
		if seconds != test.Seconds || ok != test.OK {
			t.Errorf("DurationSeconds(%q) = (%d, %v), expected (%d, %v)", test.Input, seconds, ok, test.Seconds, test.OK)
		}
	}
}

func TestZeroDuration(t *testing.T) {
	for _, zero := range []string{"", "PT0H0M0S", "PT0S", "PT0M"} {
		if !ZeroDuration(zero) {
			t.Errorf("expected %q to be zero", zero)
		}
	}

	if ZeroDuration("PT3M") {
		t.Error("PT3M should not be zero")
	}
}
