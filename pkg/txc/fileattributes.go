package txc

import (
	"sort"
	"time"
)

// FileAttributes is the subset of a document's identity the revision
// comparator keeps for previously accepted files.
type FileAttributes struct {
	Filename             string    `bson:"filename" json:"filename" yaml:"filename"`
	ServiceCode          string    `bson:"servicecode" json:"service_code" yaml:"service_code"`
	LineNames            []string  `bson:"linenames" json:"line_names" yaml:"line_names"`
	RevisionNumber       int       `bson:"revisionnumber" json:"revision_number" yaml:"revision_number"`
	ModificationDateTime time.Time `bson:"modificationdatetime" json:"modification_datetime" yaml:"modification_datetime"`
	OperatingPeriodStart time.Time `bson:"operatingperiodstart" json:"operating_period_start" yaml:"operating_period_start"`
	FileHash             string    `bson:"filehash,omitempty" json:"file_hash,omitempty" yaml:"file_hash,omitempty"`
}

// ExtractFileAttributes summarises a parsed document, one record per
// service. Line names are sorted so sets compare by equality.
func ExtractFileAttributes(document *Document) []FileAttributes {
	var records []FileAttributes

	for _, service := range document.Services {
		record := FileAttributes{
			Filename:             document.Metadata.Filename,
			ServiceCode:          service.ServiceCode,
			RevisionNumber:       document.Metadata.RevisionNumber,
			ModificationDateTime: document.Metadata.ModificationDateTime,
			OperatingPeriodStart: service.OperatingPeriod.StartDate,
			FileHash:             document.Metadata.FileHash,
		}

		for _, line := range service.Lines {
			record.LineNames = append(record.LineNames, line.LineName)
		}
		sort.Strings(record.LineNames)

		records = append(records, record)
	}

	return records
}

// SameLineNames reports whether the other record covers exactly the same
// sorted line name set.
func (a FileAttributes) SameLineNames(other FileAttributes) bool {
	if len(a.LineNames) != len(other.LineNames) {
		return false
	}

	for i, name := range a.LineNames {
		if other.LineNames[i] != name {
			return false
		}
	}

	return true
}
