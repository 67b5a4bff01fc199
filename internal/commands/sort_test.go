package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/fop/internal/commands"
	"github.com/temirov/fop/internal/headers"
	"github.com/temirov/fop/internal/types"
)

func writeFile(testingInstance *testing.T, path string, content string) {
	testingInstance.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		testingInstance.Fatalf("mkdir: %v", mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testingInstance.Fatalf("write %s: %v", path, writeError)
	}
}

func readFile(testingInstance *testing.T, path string) string {
	testingInstance.Helper()
	content, readError := os.ReadFile(path)
	if readError != nil {
		testingInstance.Fatalf("read %s: %v", path, readError)
	}
	return string(content)
}

func TestRunnerSortRewritesLocation(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, filepath.Join(root, "easylist.txt"), "! Title\n||b.com^$Script\n||a.com^\n")
	writeFile(testingInstance, filepath.Join(root, "hosts", "hosts.txt"), "# hosts\n0.0.0.0 b.com\n0.0.0.0 a.com\n")
	writeFile(testingInstance, filepath.Join(root, "easylist.txt.42.temp"), "stale")

	runner := commands.NewRunner(nil, nil, nil)
	summary, sortError := runner.Sort(context.Background(), commands.SortRequest{
		Locations:      []string{root},
		Options:        types.DefaultSortOptions(),
		LocalhostFiles: []string{"hosts.txt"},
		Jobs:           2,
	})
	if sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	if len(summary.Results) != 2 || len(summary.ChangedFiles()) != 2 {
		testingInstance.Fatalf("expected two changed results, got %+v", summary.Results)
	}
	if actual := readFile(testingInstance, filepath.Join(root, "easylist.txt")); actual != "! Title\n||a.com^\n||b.com^$script\n" {
		testingInstance.Fatalf("unexpected easylist content %q", actual)
	}
	if actual := readFile(testingInstance, filepath.Join(root, "hosts", "hosts.txt")); actual != "# hosts\n0.0.0.0 a.com\n0.0.0.0 b.com\n" {
		testingInstance.Fatalf("unexpected hosts content %q", actual)
	}
	if _, statError := os.Stat(filepath.Join(root, "easylist.txt.42.temp")); !os.IsNotExist(statError) {
		testingInstance.Fatalf("expected the leftover file to be removed, stat error: %v", statError)
	}
}

func TestRunnerSortDryRunCombinesDiffs(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	firstPath := filepath.Join(root, "first.txt")
	secondPath := filepath.Join(root, "second.txt")
	writeFile(testingInstance, firstPath, "||b.com^\n||a.com^\n")
	writeFile(testingInstance, secondPath, "||d.com^\n||c.com^\n")
	writeFile(testingInstance, filepath.Join(root, "sorted.txt"), "||a.com^\n")

	options := types.DefaultSortOptions()
	options.DryRun = true
	summary, sortError := commands.NewRunner(nil, nil, nil).Sort(context.Background(), commands.SortRequest{
		Locations: []string{root},
		Options:   options,
	})
	if sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	if len(summary.Results) != 3 || len(summary.ChangedFiles()) != 2 {
		testingInstance.Fatalf("unexpected results %+v", summary.Results)
	}
	firstIndex := strings.Index(summary.Diff, "first.txt")
	secondIndex := strings.Index(summary.Diff, "second.txt")
	if firstIndex < 0 || secondIndex < firstIndex {
		testingInstance.Fatalf("expected diffs in file order, got %q", summary.Diff)
	}
	if strings.Contains(summary.Diff, "sorted.txt") {
		testingInstance.Fatalf("unchanged file should not appear in the diff")
	}
	if actual := readFile(testingInstance, firstPath); actual != "||b.com^\n||a.com^\n" {
		testingInstance.Fatalf("dry run modified %s: %q", firstPath, actual)
	}
}

func TestRunnerSortWritesIndividualDiffs(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, filepath.Join(root, "list.txt"), "||b.com^\n||a.com^\n")

	options := types.DefaultSortOptions()
	options.DryRun = true
	summary, sortError := commands.NewRunner(nil, nil, nil).Sort(context.Background(), commands.SortRequest{
		Locations:            []string{root},
		Options:              options,
		OutputDiffIndividual: true,
	})
	if sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	if summary.Diff != "" {
		testingInstance.Fatalf("expected no combined diff, got %q", summary.Diff)
	}
	if diff := readFile(testingInstance, filepath.Join(root, "list.diff")); !strings.Contains(diff, "+++ b/") {
		testingInstance.Fatalf("unexpected diff file %q", diff)
	}
}

func TestRunnerSortMaintainsHeaders(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	listPath := filepath.Join(root, "list.txt")
	writeFile(testingInstance, listPath, "[Adblock Plus 2.0]\n||b.com^\n||a.com^\n")

	moment := time.Date(2026, time.October, 19, 9, 5, 0, 0, time.UTC)
	runner := commands.NewRunner(nil, nil, nil).WithClock(func() time.Time { return moment })
	_, sortError := runner.Sort(context.Background(), commands.SortRequest{
		Locations:      []string{root},
		Options:        types.DefaultSortOptions(),
		TimestampFiles: []string{"list.txt"},
		ChecksumFiles:  []string{"list.txt"},
	})
	if sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	content := readFile(testingInstance, listPath)
	if !strings.Contains(content, "! Last modified: 19 Oct 2026 09:05 UTC\n") {
		testingInstance.Fatalf("expected a timestamp header, got %q", content)
	}
	result, verifyError := headers.VerifyChecksum(listPath)
	if verifyError != nil {
		testingInstance.Fatalf("verify failed: %v", verifyError)
	}
	if result.Status != headers.ChecksumValid {
		testingInstance.Fatalf("expected a valid checksum, got %+v in %q", result, content)
	}
}

func TestRunnerSortSkipsMissingLocation(testingInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	runner := commands.NewRunner(zap.New(observedCore), nil, nil)

	summary, sortError := runner.Sort(context.Background(), commands.SortRequest{
		Locations: []string{filepath.Join(testingInstance.TempDir(), "absent")},
		Options:   types.DefaultSortOptions(),
	})
	if sortError != nil {
		testingInstance.Fatalf("sort failed: %v", sortError)
	}
	if len(summary.Results) != 0 {
		testingInstance.Fatalf("expected no results, got %+v", summary.Results)
	}
	if observedLogs.Len() != 1 {
		testingInstance.Fatalf("expected one warning, got %d", observedLogs.Len())
	}
}

func TestRunnerSortStopsOnCancellation(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeFile(testingInstance, filepath.Join(root, "list.txt"), "||b.com^\n||a.com^\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, sortError := commands.NewRunner(nil, nil, nil).Sort(ctx, commands.SortRequest{
		Locations: []string{root},
		Options:   types.DefaultSortOptions(),
	})
	if sortError == nil {
		testingInstance.Fatalf("expected a cancellation error")
	}
}
