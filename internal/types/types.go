// Package types defines the cross-package data structures used by the fop CLI.
package types

const (
	FormatRaw  = "raw"
	FormatJSON = "json"

	CommandSort     = "sort"
	CommandCheck    = "check"
	CommandInit     = "init"
	CommandChecksum = "checksum"

	// DefaultCommentCharacter starts a comment line in filter lists.
	DefaultCommentCharacter = "!"
	// DefaultFileExtension is the only extension processed when none is configured.
	DefaultFileExtension = "txt"
)

// SortOptions controls how a single filter list is tidied and sorted.
type SortOptions struct {
	// ConvertUBOOptions rewrites uBlock Origin option aliases to their canonical names.
	ConvertUBOOptions bool
	// NoSort keeps rule order within sections; dedup and combining still apply.
	NoSort bool
	// AltSort sorts cosmetic rules using every element separator, not only ## and #@#.
	AltSort bool
	// Localhost treats the file as a hosts file of "0.0.0.0 host" entries.
	Localhost bool
	// CommentCharacters start comment lines in addition to section headers.
	CommentCharacters []string
	// KeepEmptyLines preserves blank lines as section boundaries.
	KeepEmptyLines bool
	// IgnoreDotDomains keeps network rules whose domain has no dot.
	IgnoreDotDomains bool
	// FixTypos runs the typo correction chain on every rule.
	FixTypos bool
	// UpdateTimestamp rewrites the "Last modified" header comment.
	UpdateTimestamp bool
	// DryRun reports differences without replacing the file.
	DryRun bool
	// OutputChanged writes the sorted copy next to the original during a dry run.
	OutputChanged bool
	// Backup keeps the original content in a .backup file before replacing it.
	Backup bool
}

// DefaultSortOptions returns the options used when no flag or config changes them.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		ConvertUBOOptions: true,
		CommentCharacters: []string{DefaultCommentCharacter},
	}
}

// FileResult reports what happened to one filter list.
type FileResult struct {
	Path        string `json:"path"`
	Changed     bool   `json:"changed"`
	Diff        string `json:"diff,omitempty"`
	ChangedPath string `json:"changedPath,omitempty"`
	BackupPath  string `json:"backupPath,omitempty"`
}
