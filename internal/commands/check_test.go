package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/fop/internal/commands"
	"github.com/temirov/fop/internal/discover"
	"github.com/temirov/fop/internal/headers"
)

func TestRunnerCheckReportsTypos(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	typoPath := filepath.Join(root, "lists", "cosmetic.txt")
	writeFile(testingInstance, typoPath, "! Title\nexample.com###.ad\nexample.org##.banner\n")
	writeFile(testingInstance, filepath.Join(root, "lists", "clean.txt"), "example.org##.banner\n")
	singlePath := filepath.Join(root, "single.list")
	writeFile(testingInstance, singlePath, "example.com,,example.org##.ad\n")

	reported, checkError := commands.NewRunner(nil, nil, nil).Check(
		context.Background(),
		[]string{filepath.Join(root, "lists"), singlePath},
		discover.Options{},
		0,
	)
	if checkError != nil {
		testingInstance.Fatalf("check failed: %v", checkError)
	}
	if len(reported) != 2 {
		testingInstance.Fatalf("expected two files with typos, got %+v", reported)
	}
	if reported[0].Path != typoPath || len(reported[0].Findings) != 1 || reported[0].Findings[0].Line != 2 {
		testingInstance.Fatalf("unexpected findings %+v", reported[0])
	}
	if reported[0].Findings[0].After != "example.com##.ad" {
		testingInstance.Fatalf("unexpected fix %q", reported[0].Findings[0].After)
	}
	if reported[1].Path != singlePath || reported[1].Findings[0].After != "example.com,example.org##.ad" {
		testingInstance.Fatalf("unexpected findings %+v", reported[1])
	}
}

func TestChecksumsRoundTrip(testingInstance *testing.T) {
	listPath := filepath.Join(testingInstance.TempDir(), "list.txt")
	writeFile(testingInstance, listPath, "[Adblock Plus 2.0]\n||a.com^\n")

	verified, verifyError := commands.VerifyChecksums([]string{listPath})
	if verifyError != nil {
		testingInstance.Fatalf("verify failed: %v", verifyError)
	}
	if commands.AllValid(verified) || verified[0].Result.Status != headers.ChecksumMissing {
		testingInstance.Fatalf("expected a missing checksum, got %+v", verified)
	}

	added, addError := commands.AddChecksums([]string{listPath}, false)
	if addError != nil {
		testingInstance.Fatalf("add failed: %v", addError)
	}
	if len(added) != 1 || !added[0].Changed || added[0].Checksum == "" {
		testingInstance.Fatalf("unexpected add report %+v", added)
	}

	verified, verifyError = commands.VerifyChecksums([]string{listPath})
	if verifyError != nil || !commands.AllValid(verified) {
		testingInstance.Fatalf("expected a valid checksum, got %+v (%v)", verified, verifyError)
	}

	file, openError := os.OpenFile(listPath, os.O_APPEND|os.O_WRONLY, 0)
	if openError != nil {
		testingInstance.Fatalf("open: %v", openError)
	}
	if _, writeError := file.WriteString("||b.com^\n"); writeError != nil {
		testingInstance.Fatalf("append: %v", writeError)
	}
	_ = file.Close()

	verified, verifyError = commands.VerifyChecksums([]string{listPath})
	if verifyError != nil || verified[0].Result.Status != headers.ChecksumInvalid {
		testingInstance.Fatalf("expected an invalid checksum, got %+v (%v)", verified, verifyError)
	}
}

func TestChecksumsMissingFile(testingInstance *testing.T) {
	if _, verifyError := commands.VerifyChecksums([]string{filepath.Join(testingInstance.TempDir(), "absent.txt")}); verifyError == nil {
		testingInstance.Fatalf("expected an error for a missing file")
	}
}
