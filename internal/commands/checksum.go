package commands

import (
	"github.com/temirov/fop/internal/headers"
)

// ChecksumReport is the outcome of adding or verifying the checksum of one file.
type ChecksumReport struct {
	Path     string                 `json:"path"`
	Checksum string                 `json:"checksum,omitempty"`
	Changed  bool                   `json:"changed,omitempty"`
	Result   headers.ChecksumResult `json:"result"`
}

// AddChecksums writes a checksum header into every file, stopping at the first failure.
func AddChecksums(paths []string, useHash bool) ([]ChecksumReport, error) {
	reports := make([]ChecksumReport, 0, len(paths))
	for _, path := range paths {
		checksum, changed, checksumError := headers.AddChecksum(path, useHash)
		if checksumError != nil {
			return reports, checksumError
		}
		reports = append(reports, ChecksumReport{
			Path:     path,
			Checksum: checksum,
			Changed:  changed,
			Result:   headers.ChecksumResult{Status: headers.ChecksumValid, Expected: checksum, Found: checksum},
		})
	}
	return reports, nil
}

// VerifyChecksums checks the checksum header of every file, stopping at the first failure.
func VerifyChecksums(paths []string) ([]ChecksumReport, error) {
	reports := make([]ChecksumReport, 0, len(paths))
	for _, path := range paths {
		result, verifyError := headers.VerifyChecksum(path)
		if verifyError != nil {
			return reports, verifyError
		}
		reports = append(reports, ChecksumReport{Path: path, Checksum: result.Expected, Result: result})
	}
	return reports, nil
}

// AllValid reports whether every verified checksum matched.
func AllValid(reports []ChecksumReport) bool {
	for _, report := range reports {
		if report.Result.Status != headers.ChecksumValid {
			return false
		}
	}
	return true
}
