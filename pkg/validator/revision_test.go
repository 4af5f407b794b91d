package validator

import (
	"testing"
	"time"

	"github.com/txcheck/txcheck/pkg/txc"
)

func attributes(revision int, modified time.Time, lineNames ...string) txc.FileAttributes {
	return txc.FileAttributes{
		Filename:             "candidate.xml",
		ServiceCode:          "PB0001111:1",
		LineNames:            lineNames,
		RevisionNumber:       revision,
		ModificationDateTime: modified,
	}
}

func TestCompareRevision(t *testing.T) {
	earlier := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no prior files", func(t *testing.T) {
		if violation := CompareRevision(attributes(1, later, "42"), nil); violation != nil {
			t.Errorf("expected no violation, got %+v", violation)
		}
	})

	t.Run("higher revision passes", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42")}

		if violation := CompareRevision(attributes(4, later, "42"), priors); violation != nil {
			t.Errorf("expected no violation, got %+v", violation)
		}
	})

	t.Run("lower revision fails", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42")}

		violation := CompareRevision(attributes(1, later, "42"), priors)
		if violation == nil {
			t.Fatal("expected a violation")
		}
		if violation.Line != 2 || violation.Element != "RevisionNumber" {
			t.Errorf("violation must pin the document header, got %+v", violation)
		}
		if violation.Observation.Reference != "2.3" {
			t.Errorf("unexpected reference %q", violation.Observation.Reference)
		}
	})

	t.Run("equal revision fails", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42")}

		if violation := CompareRevision(attributes(3, later, "42"), priors); violation == nil {
			t.Fatal("expected a violation")
		}
	})

	t.Run("resubmission with identical timestamp passes", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42")}

		if violation := CompareRevision(attributes(3, earlier, "42"), priors); violation != nil {
			t.Errorf("expected no violation, got %+v", violation)
		}
	})

	t.Run("identical timestamp with different revision fails", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42")}

		if violation := CompareRevision(attributes(5, earlier, "42"), priors); violation == nil {
			t.Fatal("expected a violation")
		}
	})

	t.Run("different line set is ignored", func(t *testing.T) {
		priors := []txc.FileAttributes{attributes(3, earlier, "42", "43")}

		if violation := CompareRevision(attributes(1, later, "42"), priors); violation != nil {
			t.Errorf("prior file with a different line set must not be compared, got %+v", violation)
		}
	})
}
