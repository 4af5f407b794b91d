package validator

import (
	"fmt"

	"github.com/txcheck/txcheck/pkg/report"
	"github.com/txcheck/txcheck/pkg/txc"
)

// revisionObservation is the fixed metadata attached to revision history
// violations. Revision checks run against stored file attributes, not
// against the document itself, so the observation is not schema driven.
var revisionObservation = report.ObservationSummary{
	Details:   "The RevisionNumber must increase between file versions of the same service",
	Category:  "Versioning",
	Reference: "2.3",
}

// CompareRevision checks a candidate file's revision number against every
// previously recorded file for the same service and line set. At most one
// violation is produced, pinned to the document header.
func CompareRevision(candidate txc.FileAttributes, priors []txc.FileAttributes) *report.Violation {
	for _, prior := range priors {
		if !candidate.SameLineNames(prior) {
			continue
		}

		if candidate.ModificationDateTime.Equal(prior.ModificationDateTime) {
			if candidate.RevisionNumber == prior.RevisionNumber {
				continue
			}

			return revisionViolation(candidate, fmt.Sprintf(
				"RevisionNumber %d differs from %d in an earlier file with the same modification time",
				candidate.RevisionNumber, prior.RevisionNumber))
		}

		if candidate.RevisionNumber <= prior.RevisionNumber {
			return revisionViolation(candidate, fmt.Sprintf(
				"RevisionNumber %d is not greater than %d in an earlier file for service %s",
				candidate.RevisionNumber, prior.RevisionNumber, candidate.ServiceCode))
		}
	}

	return nil
}

func revisionViolation(candidate txc.FileAttributes, message string) *report.Violation {
	return &report.Violation{
		Filename:    candidate.Filename,
		Line:        2,
		Element:     "RevisionNumber",
		Message:     message,
		Observation: revisionObservation,
	}
}
