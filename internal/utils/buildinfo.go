// Package utils provides helper functions, including version retrieval.
package utils

import (
	"runtime/debug"

	"github.com/go-git/go-git/v5"
)

const (
	unknownVersion       = "unknown"
	developmentVersion   = "(devel)"
	developmentPrefix    = "devel+"
	shortCommitHashWidth = 7
)

// Version is set at link time with -ldflags "-X github.com/temirov/fop/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion attempts to determine the application version using various methods.
// It checks the linker-provided version and Go build info first, then falls back to the
// HEAD commit of the enclosing git repository.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}

	repository, openError := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return unknownVersion
	}
	headReference, headError := repository.Head()
	if headError != nil {
		return unknownVersion
	}
	return developmentPrefix + headReference.Hash().String()[:shortCommitHashWidth]
}
