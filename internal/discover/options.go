package discover

import (
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/utils"
)

// builtinIgnoredFiles and builtinIgnoredDirectories are skipped unless built-in ignores are disabled.
var (
	builtinIgnoredFiles       = []string{"test-files-to-ingore.txt"}
	builtinIgnoredDirectories = []string{"folders-to-ingore"}
)

// Options configures filter-file discovery.
type Options struct {
	Extensions            []string
	IgnoreFiles           []string
	IgnoreDirectories     []string
	IgnoreAllBut          []string
	DisableBuiltinIgnores bool
}

func (options Options) extensions() []string {
	if len(options.Extensions) == 0 {
		return []string{types.DefaultFileExtension}
	}
	return options.Extensions
}

func (options Options) skipsDirectory(name string) bool {
	if !options.DisableBuiltinIgnores && utils.ContainsString(builtinIgnoredDirectories, name) {
		return true
	}
	return utils.MatchesName(name, options.IgnoreDirectories)
}

func (options Options) acceptsFile(name string) bool {
	if !utils.HasExtension(name, options.extensions()) {
		return false
	}
	if !options.DisableBuiltinIgnores && utils.ContainsString(builtinIgnoredFiles, name) {
		return false
	}
	if utils.MatchesName(name, options.IgnoreFiles) {
		return false
	}
	return len(options.IgnoreAllBut) == 0 || utils.MatchesName(name, options.IgnoreAllBut)
}
