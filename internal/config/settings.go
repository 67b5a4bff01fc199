package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/fop/internal/discover"
	"github.com/temirov/fop/internal/types"
)

const (
	describeLineFormat = "  %-18s = %s\n"
	noneValue          = "(none)"
	listSeparator      = ","
)

// Settings is the fully resolved configuration of a sort run.
type Settings struct {
	Sort            types.SortOptions
	Discovery       discover.Options
	LocalhostFiles  []string
	TimestampFiles  []string
	ChecksumFiles   []string
	OnlySortChanged bool
	Quiet           bool
	NoColor         bool
	ShowChanges     bool
	WarningOutput   string
	OutputDiff      string
}

// DefaultSettings returns the settings used when neither a file nor a flag sets a value.
func DefaultSettings() Settings {
	return Settings{
		Sort:      types.DefaultSortOptions(),
		Discovery: discover.Options{Extensions: []string{types.DefaultFileExtension}},
	}
}

// Apply overlays the values set in file onto the receiver.
func (settings Settings) Apply(file FileConfiguration) Settings {
	result := settings
	if file.NoUBOConvert != nil {
		result.Sort.ConvertUBOOptions = !*file.NoUBOConvert
	}
	applyBool(&result.Sort.NoSort, file.NoSort)
	applyBool(&result.Sort.AltSort, file.AltSort)
	applyBool(&result.Sort.Localhost, file.Localhost)
	applyList(&result.Sort.CommentCharacters, file.Comments)
	applyBool(&result.Sort.KeepEmptyLines, file.KeepEmptyLines)
	applyBool(&result.Sort.IgnoreDotDomains, file.IgnoreDotDomains)
	applyBool(&result.Sort.FixTypos, file.FixTypos)
	applyBool(&result.Sort.Backup, file.Backup)
	applyBool(&result.Quiet, file.Quiet)
	applyBool(&result.NoColor, file.NoColor)
	applyList(&result.Discovery.Extensions, file.FileExtensions)
	applyList(&result.Discovery.IgnoreFiles, file.IgnoreFiles)
	applyList(&result.Discovery.IgnoreDirectories, file.IgnoreDirs)
	applyList(&result.Discovery.IgnoreAllBut, file.IgnoreAllBut)
	applyBool(&result.Discovery.DisableBuiltinIgnores, file.DisableIgnored)
	applyList(&result.LocalhostFiles, file.LocalhostFiles)
	applyBool(&result.OnlySortChanged, file.OnlySortChanged)
	applyList(&result.TimestampFiles, file.AddTimestamp)
	applyList(&result.ChecksumFiles, file.AddChecksum)
	applyBool(&result.ShowChanges, file.ShowChanges)
	if file.WarningOutput != "" {
		result.WarningOutput = file.WarningOutput
	}
	if file.OutputDiff != "" {
		result.OutputDiff = file.OutputDiff
	}
	return result
}

// Describe renders the settings as the key = value lines of a configuration file.
func (settings Settings) Describe(sourcePath string) string {
	var builder strings.Builder
	source := sourcePath
	if source == "" {
		source = noneValue
	}
	fmt.Fprintf(&builder, "Config file: %s\n", source)
	entries := []struct {
		key   string
		value string
	}{
		{KeyNoUBOConvert, strconv.FormatBool(!settings.Sort.ConvertUBOOptions)},
		{KeyNoSort, strconv.FormatBool(settings.Sort.NoSort)},
		{KeyAltSort, strconv.FormatBool(settings.Sort.AltSort)},
		{KeyLocalhost, strconv.FormatBool(settings.Sort.Localhost)},
		{KeyComments, describeList(settings.Sort.CommentCharacters)},
		{KeyKeepEmptyLines, strconv.FormatBool(settings.Sort.KeepEmptyLines)},
		{KeyIgnoreDotDomains, strconv.FormatBool(settings.Sort.IgnoreDotDomains)},
		{KeyFixTypos, strconv.FormatBool(settings.Sort.FixTypos)},
		{KeyBackup, strconv.FormatBool(settings.Sort.Backup)},
		{KeyQuiet, strconv.FormatBool(settings.Quiet)},
		{KeyNoColor, strconv.FormatBool(settings.NoColor)},
		{KeyFileExtensions, describeList(settings.Discovery.Extensions)},
		{KeyIgnoreFiles, describeList(settings.Discovery.IgnoreFiles)},
		{KeyIgnoreDirs, describeList(settings.Discovery.IgnoreDirectories)},
		{KeyIgnoreAllBut, describeList(settings.Discovery.IgnoreAllBut)},
		{KeyLocalhostFiles, describeList(settings.LocalhostFiles)},
		{KeyOnlySortChanged, strconv.FormatBool(settings.OnlySortChanged)},
		{KeyDisableIgnored, strconv.FormatBool(settings.Discovery.DisableBuiltinIgnores)},
		{KeyAddTimestamp, describeList(settings.TimestampFiles)},
		{KeyAddChecksum, describeList(settings.ChecksumFiles)},
		{KeyWarningOutput, describeString(settings.WarningOutput)},
		{KeyShowChanges, strconv.FormatBool(settings.ShowChanges)},
		{KeyOutputDiff, describeString(settings.OutputDiff)},
	}
	for _, entry := range entries {
		fmt.Fprintf(&builder, describeLineFormat, entry.key, entry.value)
	}
	return builder.String()
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func applyList(target *[]string, values []string) {
	if values != nil {
		*target = append([]string(nil), values...)
	}
}

func describeList(values []string) string {
	if len(values) == 0 {
		return noneValue
	}
	return strings.Join(values, listSeparator)
}

func describeString(value string) string {
	if value == "" {
		return noneValue
	}
	return value
}
