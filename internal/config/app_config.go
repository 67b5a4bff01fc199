// Package config loads .fopconfig files and resolves the settings of a run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/fop/internal/utils"
)

const (
	// ConfigFileName is the name of local and global configuration files.
	ConfigFileName = ".fopconfig"

	configurationType = "properties"
)

// Configuration keys, identical to the command-line flag names where one exists.
const (
	KeyNoUBOConvert     = "no-ubo-convert"
	KeyNoSort           = "no-sort"
	KeyAltSort          = "alt-sort"
	KeyLocalhost        = "localhost"
	KeyComments         = "comments"
	KeyKeepEmptyLines   = "keep-empty-lines"
	KeyIgnoreDotDomains = "ignore-dot-domains"
	KeyFixTypos         = "fix-typos"
	KeyBackup           = "backup"
	KeyQuiet            = "quiet"
	KeyNoColor          = "no-color"
	KeyFileExtensions   = "file-extensions"
	KeyIgnoreFiles      = "ignorefiles"
	KeyIgnoreDirs       = "ignoredirs"
	KeyIgnoreAllBut     = "ignore-all-but"
	KeyLocalhostFiles   = "localhost-files"
	KeyOnlySortChanged  = "only-sort-changed"
	KeyDisableIgnored   = "disable-ignored"
	KeyAddTimestamp     = "add-timestamp"
	KeyAddChecksum      = "add-checksum"
	KeyWarningOutput    = "warning-output"
	KeyShowChanges      = "show-changes"
	KeyOutputDiff       = "output-diff"
)

// ErrConfigurationNotFound is returned when an explicitly requested file does not exist.
var ErrConfigurationNotFound = errors.New("configuration file not found")

// LoadOptions controls how the configuration file is discovered.
type LoadOptions struct {
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
	Ignore           bool
}

// FileConfiguration holds the values of one .fopconfig file. Nil or empty fields were not set.
type FileConfiguration struct {
	NoUBOConvert     *bool
	NoSort           *bool
	AltSort          *bool
	Localhost        *bool
	Comments         []string
	KeepEmptyLines   *bool
	IgnoreDotDomains *bool
	FixTypos         *bool
	Backup           *bool
	Quiet            *bool
	NoColor          *bool
	FileExtensions   []string
	IgnoreFiles      []string
	IgnoreDirs       []string
	IgnoreAllBut     []string
	LocalhostFiles   []string
	OnlySortChanged  *bool
	DisableIgnored   *bool
	AddTimestamp     []string
	AddChecksum      []string
	WarningOutput    string
	ShowChanges      *bool
	OutputDiff       string
}

// LoadConfiguration finds and decodes the configuration file. An explicit path is used
// alone; otherwise ./.fopconfig is tried before ~/.fopconfig and the first one found wins.
// It returns the decoded configuration and the path it came from, which is empty when no
// file was read.
func LoadConfiguration(options LoadOptions) (FileConfiguration, string, error) {
	if options.Ignore {
		return FileConfiguration{}, "", nil
	}
	if options.ExplicitFilePath != "" {
		explicitPath := options.ExplicitFilePath
		if !filepath.IsAbs(explicitPath) && options.WorkingDirectory != "" {
			explicitPath = filepath.Join(options.WorkingDirectory, explicitPath)
		}
		if _, statErr := os.Stat(explicitPath); statErr != nil {
			if os.IsNotExist(statErr) {
				return FileConfiguration{}, "", fmt.Errorf("%w: %s", ErrConfigurationNotFound, explicitPath)
			}
			return FileConfiguration{}, "", fmt.Errorf("stat configuration %s: %w", explicitPath, statErr)
		}
		configuration, loadErr := loadConfigurationFromPath(explicitPath)
		return configuration, explicitPath, loadErr
	}

	for _, candidatePath := range candidatePaths(options) {
		info, statErr := os.Stat(candidatePath)
		if statErr != nil || info.IsDir() {
			continue
		}
		configuration, loadErr := loadConfigurationFromPath(candidatePath)
		return configuration, candidatePath, loadErr
	}
	return FileConfiguration{}, "", nil
}

func candidatePaths(options LoadOptions) []string {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		if currentDirectory, err := os.Getwd(); err == nil {
			workingDirectory = currentDirectory
		}
	}
	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = userHome
		}
	}
	var candidates []string
	if workingDirectory != "" {
		candidates = append(candidates, filepath.Join(workingDirectory, ConfigFileName))
	}
	if homeDirectory != "" {
		candidates = append(candidates, filepath.Join(homeDirectory, ConfigFileName))
	}
	return candidates
}

func loadConfigurationFromPath(path string) (FileConfiguration, error) {
	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configurationType)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return FileConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	return FileConfiguration{
		NoUBOConvert:     readBool(reader, KeyNoUBOConvert),
		NoSort:           readBool(reader, KeyNoSort),
		AltSort:          readBool(reader, KeyAltSort),
		Localhost:        readBool(reader, KeyLocalhost),
		Comments:         readList(reader, KeyComments),
		KeepEmptyLines:   readBool(reader, KeyKeepEmptyLines),
		IgnoreDotDomains: readBool(reader, KeyIgnoreDotDomains),
		FixTypos:         readBool(reader, KeyFixTypos),
		Backup:           readBool(reader, KeyBackup),
		Quiet:            readBool(reader, KeyQuiet),
		NoColor:          readBool(reader, KeyNoColor),
		FileExtensions:   normalizeExtensions(readList(reader, KeyFileExtensions)),
		IgnoreFiles:      readList(reader, KeyIgnoreFiles),
		IgnoreDirs:       readList(reader, KeyIgnoreDirs),
		IgnoreAllBut:     readList(reader, KeyIgnoreAllBut),
		LocalhostFiles:   readList(reader, KeyLocalhostFiles),
		OnlySortChanged:  readBool(reader, KeyOnlySortChanged),
		DisableIgnored:   readBool(reader, KeyDisableIgnored),
		AddTimestamp:     readList(reader, KeyAddTimestamp),
		AddChecksum:      readList(reader, KeyAddChecksum),
		WarningOutput:    readString(reader, KeyWarningOutput),
		ShowChanges:      readBool(reader, KeyShowChanges),
		OutputDiff:       readString(reader, KeyOutputDiff),
	}, nil
}

// BooleanLiterals lists the words a setting may use for true or false, in
// configuration files and on the command line alike.
var BooleanLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// LookupBool resolves a boolean literal in any letter case. The second result
// is false when the value is not a known literal.
func LookupBool(value string) (bool, bool) {
	parsed, known := BooleanLiterals[strings.ToLower(strings.TrimSpace(value))]
	return parsed, known
}

// ParseBool reads a configuration value; unknown literals are false.
func ParseBool(value string) bool {
	parsed, known := LookupBool(value)
	return known && parsed
}

func readBool(reader *viper.Viper, key string) *bool {
	if !reader.IsSet(key) {
		return nil
	}
	value := ParseBool(reader.GetString(key))
	return &value
}

func readList(reader *viper.Viper, key string) []string {
	if !reader.IsSet(key) {
		return nil
	}
	return utils.DeduplicatePatterns(utils.SplitList(reader.GetString(key)))
}

func readString(reader *viper.Viper, key string) string {
	if !reader.IsSet(key) {
		return ""
	}
	return strings.TrimSpace(reader.GetString(key))
}

func normalizeExtensions(extensions []string) []string {
	if extensions == nil {
		return nil
	}
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		if trimmed := strings.TrimPrefix(extension, "."); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
