// Package commands runs the sort, check and checksum operations over the filter
// lists found in a set of locations.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/discover"
	"github.com/temirov/fop/internal/headers"
	"github.com/temirov/fop/internal/sorter"
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/utils"
	"github.com/temirov/fop/internal/warnings"
)

const (
	primaryLocationMessage = "Primary location"
	skippedLocationMessage = "Skipping location"
	gitDetectedMessage     = "Git detected: processing changed files only"
	gitUnavailableMessage  = "only-sort-changed is set but the location is not a git worktree, processing all files"
	sortedMessage          = "Sorted"
	sortFailedMessage      = "Failed to sort file"
	diffWrittenMessage     = "Diff written"
	diffWriteFailedMessage = "Failed to write diff file"
	leftoverFailedMessage  = "Failed to remove leftover files"
	timestampFailedMessage = "Failed to add timestamp"
	checksumFailedMessage  = "Failed to add checksum"
	checksumAddedMessage   = "Checksum updated"
	pathField              = "path"
	changedFilesField      = "changed"
	checksumField          = "checksum"
	diffFileExtension      = ".diff"
	diffFilePermissions    = 0o644
)

// SortRequest describes one sort run over a set of locations.
type SortRequest struct {
	Locations            []string
	Options              types.SortOptions
	Discovery            discover.Options
	LocalhostFiles       []string
	TimestampFiles       []string
	ChecksumFiles        []string
	OnlyChanged          bool
	OutputDiffIndividual bool
	Jobs                 int
}

// SortSummary collects the per-file results of a run in discovery order.
type SortSummary struct {
	Results []types.FileResult
	Diff    string
}

// ChangedFiles returns the results of files whose content differs from the sorted form.
func (summary SortSummary) ChangedFiles() []types.FileResult {
	var changed []types.FileResult
	for _, result := range summary.Results {
		if result.Changed {
			changed = append(changed, result)
		}
	}
	return changed
}

// Runner sorts filter lists, reporting progress through a zap logger.
type Runner struct {
	logger   *zap.Logger
	warnings warnings.Sink
	changes  changes.Sink
	now      func() time.Time
}

// NewRunner builds a runner. A nil logger discards progress output and nil sinks discard reports.
func NewRunner(logger *zap.Logger, warningSink warnings.Sink, changeSink changes.Sink) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if warningSink == nil {
		warningSink = warnings.Discard
	}
	if changeSink == nil {
		changeSink = changes.Nop
	}
	return Runner{logger: logger, warnings: warningSink, changes: changeSink, now: time.Now}
}

// WithClock returns a runner using now for header timestamps.
func (runner Runner) WithClock(now func() time.Time) Runner {
	runner.now = now
	return runner
}

// Sort processes every location in order. Per-file failures are logged and skipped;
// only cancellation of ctx stops the run.
func (runner Runner) Sort(ctx context.Context, request SortRequest) (SortSummary, error) {
	var summary SortSummary
	var diffs []string
	for _, location := range request.Locations {
		results, locationError := runner.sortLocation(ctx, location, request)
		if locationError != nil {
			return summary, locationError
		}
		for _, result := range results {
			if result.Diff != "" && !request.OutputDiffIndividual {
				diffs = append(diffs, result.Diff)
			}
		}
		summary.Results = append(summary.Results, results...)
	}
	summary.Diff = strings.Join(diffs, "")
	return summary, nil
}

func (runner Runner) sortLocation(ctx context.Context, location string, request SortRequest) ([]types.FileResult, error) {
	absoluteLocation, absoluteError := filepath.Abs(location)
	if absoluteError != nil {
		runner.logger.Warn(skippedLocationMessage, zap.String(pathField, location), zap.Error(absoluteError))
		return nil, nil
	}
	runner.logger.Info(primaryLocationMessage, zap.String(pathField, absoluteLocation))

	filterFiles, findError := discover.FindFilterFiles(absoluteLocation, request.Discovery)
	if findError != nil {
		runner.logger.Warn(skippedLocationMessage, zap.String(pathField, absoluteLocation), zap.Error(findError))
		return nil, nil
	}
	selectedFiles := runner.selectChangedFiles(absoluteLocation, filterFiles, request.OnlyChanged)

	results := make([]types.FileResult, len(selectedFiles))
	processed := make([]bool, len(selectedFiles))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobLimit(request.Jobs))
	for index, filterFile := range selectedFiles {
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			result, processedFile := runner.sortFile(filterFile, request)
			results[index] = result
			processed[index] = processedFile
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	if _, leftoverError := discover.RemoveLeftovers(absoluteLocation, request.Discovery); leftoverError != nil {
		runner.logger.Warn(leftoverFailedMessage, zap.String(pathField, absoluteLocation), zap.Error(leftoverError))
	}
	if !request.Options.DryRun {
		runner.maintainHeaders(filterFiles, request)
	}

	completed := make([]types.FileResult, 0, len(results))
	for index, result := range results {
		if processed[index] {
			completed = append(completed, result)
		}
	}
	return completed, nil
}

func (runner Runner) selectChangedFiles(location string, filterFiles []string, onlyChanged bool) []string {
	if !onlyChanged {
		return filterFiles
	}
	changedSet, changedError := discover.ChangedFiles(location)
	if changedError != nil {
		runner.logger.Warn(gitUnavailableMessage, zap.String(pathField, location), zap.Error(changedError))
		return filterFiles
	}
	selected := make([]string, 0, len(filterFiles))
	for _, filterFile := range filterFiles {
		if changedSet.Contains(filterFile) {
			selected = append(selected, filterFile)
		}
	}
	runner.logger.Info(gitDetectedMessage, zap.String(pathField, location), zap.Int(changedFilesField, len(selected)))
	return selected
}

// sortFile sorts one file and reports whether it was processed without error.
func (runner Runner) sortFile(filterFile string, request SortRequest) (types.FileResult, bool) {
	options := request.Options
	options.Localhost = options.Localhost || utils.MatchesFile(filterFile, request.LocalhostFiles)
	options.UpdateTimestamp = options.UpdateTimestamp || utils.MatchesFile(filterFile, request.TimestampFiles)

	driver := sorter.NewDriver(options, runner.warnings, runner.changes).WithClock(runner.now)
	result, sortError := driver.SortFile(filterFile)
	if sortError != nil {
		runner.logger.Warn(sortFailedMessage, zap.String(pathField, filterFile), zap.Error(sortError))
		return result, false
	}
	if result.Changed && !options.DryRun {
		runner.logger.Info(sortedMessage, zap.String(pathField, filterFile))
	}
	if result.Diff != "" && request.OutputDiffIndividual {
		runner.writeIndividualDiff(filterFile, result.Diff)
	}
	return result, true
}

func (runner Runner) writeIndividualDiff(filterFile string, diff string) {
	diffPath := strings.TrimSuffix(filterFile, filepath.Ext(filterFile)) + diffFileExtension
	if writeError := os.WriteFile(diffPath, []byte(diff), diffFilePermissions); writeError != nil {
		runner.logger.Warn(diffWriteFailedMessage, zap.String(pathField, diffPath), zap.Error(writeError))
		return
	}
	runner.logger.Info(diffWrittenMessage, zap.String(pathField, diffPath))
}

// maintainHeaders adds timestamps and then checksums to the configured files.
func (runner Runner) maintainHeaders(filterFiles []string, request SortRequest) {
	for _, filterFile := range filterFiles {
		useHash := request.Options.Localhost || utils.MatchesFile(filterFile, request.LocalhostFiles)
		if utils.MatchesFile(filterFile, request.TimestampFiles) {
			if _, timestampError := headers.AddTimestamp(filterFile, useHash, runner.now()); timestampError != nil {
				runner.logger.Warn(timestampFailedMessage, zap.String(pathField, filterFile), zap.Error(timestampError))
			}
		}
		if utils.MatchesFile(filterFile, request.ChecksumFiles) {
			checksum, changed, checksumError := headers.AddChecksum(filterFile, useHash)
			if checksumError != nil {
				runner.logger.Warn(checksumFailedMessage, zap.String(pathField, filterFile), zap.Error(checksumError))
				continue
			}
			if changed {
				runner.logger.Info(checksumAddedMessage, zap.String(pathField, filterFile), zap.String(checksumField, checksum))
			}
		}
	}
}

func jobLimit(jobs int) int {
	if jobs > 0 {
		return jobs
	}
	return runtime.NumCPU()
}
