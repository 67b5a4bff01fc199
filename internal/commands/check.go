package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/fop/internal/discover"
	"github.com/temirov/fop/internal/typos"
)

const (
	checkFailedMessage = "Failed to check file"
	openFileFormat     = "open %s: %w"
)

// FileFindings lists the typos found in one file.
type FileFindings struct {
	Path     string          `json:"path"`
	Findings []typos.Finding `json:"findings"`
}

// Check runs the typo chain over the given files and the filter lists below the
// given directories without modifying anything. Files without typos are omitted.
func (runner Runner) Check(ctx context.Context, paths []string, discovery discover.Options, jobs int) ([]FileFindings, error) {
	var checkedFiles []string
	for _, path := range paths {
		pathInformation, statError := os.Stat(path)
		if statError != nil {
			runner.logger.Warn(checkFailedMessage, zap.String(pathField, path), zap.Error(statError))
			continue
		}
		if !pathInformation.IsDir() {
			checkedFiles = append(checkedFiles, path)
			continue
		}
		filterFiles, findError := discover.FindFilterFiles(path, discovery)
		if findError != nil {
			runner.logger.Warn(skippedLocationMessage, zap.String(pathField, path), zap.Error(findError))
			continue
		}
		checkedFiles = append(checkedFiles, filterFiles...)
	}

	perFile := make([]FileFindings, len(checkedFiles))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobLimit(jobs))
	for index, checkedFile := range checkedFiles {
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			findings, checkError := checkFile(checkedFile)
			if checkError != nil {
				runner.logger.Warn(checkFailedMessage, zap.String(pathField, checkedFile), zap.Error(checkError))
				return nil
			}
			perFile[index] = FileFindings{Path: checkedFile, Findings: findings}
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	var reported []FileFindings
	for _, fileFindings := range perFile {
		if len(fileFindings.Findings) > 0 {
			reported = append(reported, fileFindings)
		}
	}
	return reported, nil
}

func checkFile(path string) ([]typos.Finding, error) {
	file, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(openFileFormat, path, openError)
	}
	defer file.Close()
	return typos.CheckReader(file)
}
