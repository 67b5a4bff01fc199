package clipboard

import (
	"errors"
	"testing"

	"github.com/atotto/clipboard"
)

func TestServiceCopy(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility available")
	}
	var copied string
	service := &Service{writeAll: func(text string) error {
		copied = text
		return nil
	}}
	if err := service.Copy("--- a/list.txt\n"); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if copied != "--- a/list.txt\n" {
		t.Fatalf("unexpected clipboard content %q", copied)
	}
}

func TestServiceCopyRejectsEmptyText(t *testing.T) {
	service := &Service{writeAll: func(string) error { return nil }}
	if err := service.Copy(""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestServiceCopyWrapsErrors(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no clipboard utility available")
	}
	failure := errors.New("xsel failed")
	service := &Service{writeAll: func(string) error { return failure }}
	if err := service.Copy("diff"); !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}
