package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the home directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# fop configuration
# Booleans accept 1, true or yes. Lists are comma-separated.

# Rule handling
no-ubo-convert = false
no-sort = false
alt-sort = false
localhost = false
comments = !
keep-empty-lines = false
ignore-dot-domains = false
fix-typos = false
backup = false

# File discovery
file-extensions = txt
ignorefiles =
ignoredirs =
ignore-all-but =
disable-ignored = false
only-sort-changed = false
localhost-files =

# Headers maintained after sorting
add-timestamp =
add-checksum =

# Output
quiet = false
no-color = false
show-changes = false
warning-output =
output-diff =
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationDirectory string
	switch target {
	case InitTargetLocal:
		destinationDirectory = options.WorkingDirectory
		if destinationDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			destinationDirectory = current
		}
	case InitTargetGlobal:
		destinationDirectory = options.HomeDirectory
		if destinationDirectory == "" {
			homeDirectory, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			destinationDirectory = homeDirectory
		}
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}
	destinationPath := filepath.Join(destinationDirectory, ConfigFileName)

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
