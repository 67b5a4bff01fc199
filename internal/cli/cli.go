// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/fop/internal/changes"
	"github.com/temirov/fop/internal/commands"
	"github.com/temirov/fop/internal/config"
	"github.com/temirov/fop/internal/output"
	"github.com/temirov/fop/internal/services/clipboard"
	"github.com/temirov/fop/internal/types"
	"github.com/temirov/fop/internal/utils"
	"github.com/temirov/fop/internal/warnings"
)

const (
	versionFlagName      = "version"
	versionTemplate      = "fop version: %s\n"
	defaultPath          = "."
	rootUse              = "fop"
	rootShortDescription = "fop tidies, sorts and merges ad-block filter lists"
	rootLongDescription  = `fop rewrites Adblock Plus, uBlock Origin and AdGuard filter lists into a canonical form.
Rules inside each section are tidied, deduplicated, sorted and merged on their domain lists.
Use sort to rewrite lists, check to report typos without writing, checksum to maintain
checksum headers and init to write a default .fopconfig.`
	versionFlagDescription = "display application version"

	sortUse              = "sort [locations...]"
	sortShortDescription = "tidy and sort the filter lists found in each location"
	sortLongDescription  = `Sort every filter list found under the given files or directories (default ".").
Settings come from .fopconfig (local, then global) and are overridden by explicit flags.`
	sortUsageExample = `  # Sort every .txt list below the current directory
  fop sort

  # Preview the changes as a unified diff and copy it to the clipboard
  fop sort --dry-run --copy lists/

  # Fix typos and report what changed
  fop sort --fix-typos --show-changes --format json easylist/`

	checkUse              = "check [paths...]"
	checkShortDescription = "report typos without modifying files"
	checkLongDescription  = `Run the typo detector over every line of the given lists and report each fix it would apply.
The command fails when a typo is found so it can guard continuous integration.`

	checksumUse                 = "checksum"
	checksumShortDescription    = "maintain \"! Checksum:\" headers"
	checksumAddUse              = "add FILE..."
	checksumAddDescription      = "add or update the checksum header"
	checksumVerifyUse           = "verify FILE..."
	checksumVerifyDescription   = "verify the checksum header"
	checksumLocalhostFlagName   = "localhost"
	checksumLocalhostFlagUsage  = "write the header with # as the comment character"
	initUse                     = "init"
	initShortDescription        = "write a default .fopconfig"
	initGlobalFlagName          = "global"
	initGlobalFlagDescription   = "write the configuration into the home directory"
	initForceFlagName           = "force"
	initForceFlagDescription    = "overwrite an existing configuration file"
	configurationWrittenMessage = "Configuration written to %s\n"

	dryRunFlagName               = "dry-run"
	outputChangedFlagName        = "output-changed"
	outputDiffIndividualFlagName = "output-diff-individual"
	copyFlagName                 = "copy"
	formatFlagName               = "format"
	jobsFlagName                 = "jobs"
	configFileFlagName           = "config-file"
	ignoreConfigFlagName         = "ignore-config"
	showConfigFlagName           = "show-config"

	noUBOConvertFlagDescription         = "keep uBlock Origin option aliases"
	noSortFlagDescription               = "keep rule order inside sections"
	altSortFlagDescription              = "sort cosmetic rules on every element separator"
	localhostFlagDescription            = "treat lists as hosts files"
	commentsFlagDescription             = "comment characters"
	keepEmptyLinesFlagDescription       = "keep blank lines as section boundaries"
	ignoreDotDomainsFlagDescription     = "keep network rules whose domain has no dot"
	fixTyposFlagDescription             = "fix common rule typos"
	backupFlagDescription               = "keep the original file as .backup"
	dryRunFlagDescription               = "print a unified diff instead of writing"
	outputChangedFlagDescription        = "with --dry-run write the sorted copy to <name>--changed.<ext>"
	outputDiffFlagDescription           = "write the dry-run diff to this file"
	outputDiffIndividualFlagDescription = "write one .diff file next to every changed list"
	copyFlagDescription                 = "copy the dry-run diff to the clipboard"
	warningOutputFlagDescription        = "write rule warnings to this file instead of the log"
	showChangesFlagDescription          = "print the rule changes made during the run"
	formatFlagDescription               = "output format (raw or json)"
	quietFlagDescription                = "suppress progress messages"
	noColorFlagDescription              = "disable colored log levels"
	jobsFlagDescription                 = "number of lists processed in parallel (0 uses every CPU)"
	configFileFlagDescription           = "read settings from this file only"
	ignoreConfigFlagDescription         = "do not read any .fopconfig"
	showConfigFlagDescription           = "print the resolved settings and exit"
	fileExtensionsFlagDescription       = "extensions of the lists to process"
	ignoreFilesFlagDescription          = "file names to skip"
	ignoreDirsFlagDescription           = "directory names to skip"
	ignoreAllButFlagDescription         = "process only these file names"
	localhostFilesFlagDescription       = "file names always treated as hosts files"
	onlySortChangedFlagDescription      = "process only lists changed in the git worktree"
	disableIgnoredFlagDescription       = "do not skip the built-in ignored names"
	addTimestampFlagDescription         = "file names whose Last modified header is maintained"
	addChecksumFlagDescription          = "file names whose Checksum header is maintained"

	invalidFormatMessage          = "invalid format value '%s'"
	configurationWarningMessage   = "Configuration file not found, using defaults"
	noChangesMessage              = "No changes"
	diffWrittenMessage            = "Diff written"
	diffCopiedMessage             = "Diff copied to clipboard"
	warningsWrittenMessage        = "Warnings written"
	pathField                     = "path"
	diffFilePermissions           = 0o644
	writeDiffErrorFormat          = "write diff to %s: %w"
	copyDiffErrorFormat           = "copy diff: %w"
	loggerInitializationErrorText = "initialize logger: %w"
	renderErrorFormat             = "render %s output: %w"
)

var (
	errTyposFound      = errors.New("typos found")
	errChecksumInvalid = errors.New("checksum verification failed")
)

// dependencies holds the collaborators that tests replace.
type dependencies struct {
	stdout           io.Writer
	copier           clipboard.Copier
	newLogger        func(utils.LoggerOptions) (*zap.Logger, error)
	now              func() time.Time
	workingDirectory string
	homeDirectory    string
}

func defaultDependencies() dependencies {
	return dependencies{
		stdout:    os.Stdout,
		copier:    clipboard.NewService(),
		newLogger: utils.NewApplicationLogger,
		now:       time.Now,
	}
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) (string, error) {
	lowered := strings.ToLower(strings.TrimSpace(format))
	if !isSupportedFormat(lowered) {
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
	return lowered, nil
}

// Execute runs the fop application.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(joinToggleValues(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion && command.HasParent() {
				fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.SetOut(deps.stdout)
	registerToggleFlag(rootCommand.PersistentFlags(), &showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createSortCommand(deps),
		createCheckCommand(deps),
		createChecksumCommand(deps),
		createInitCommand(deps),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// sortFlags stores every flag of the sort command.
type sortFlags struct {
	noUBOConvert         bool
	noSort               bool
	altSort              bool
	localhost            bool
	comments             []string
	keepEmptyLines       bool
	ignoreDotDomains     bool
	fixTypos             bool
	backup               bool
	dryRun               bool
	outputChanged        bool
	outputDiff           string
	outputDiffIndividual bool
	copyDiff             bool
	warningOutput        string
	showChanges          bool
	format               string
	quiet                bool
	noColor              bool
	jobs                 int
	configFile           string
	ignoreConfig         bool
	showConfig           bool
	fileExtensions       []string
	ignoreFiles          []string
	ignoreDirs           []string
	ignoreAllBut         []string
	localhostFiles       []string
	onlySortChanged      bool
	disableIgnored       bool
	addTimestamp         []string
	addChecksum          []string
}

func (flags *sortFlags) register(flagSet *pflag.FlagSet) {
	registerToggleFlag(flagSet, &flags.noUBOConvert, config.KeyNoUBOConvert, false, noUBOConvertFlagDescription)
	registerToggleFlag(flagSet, &flags.noSort, config.KeyNoSort, false, noSortFlagDescription)
	registerToggleFlag(flagSet, &flags.altSort, config.KeyAltSort, false, altSortFlagDescription)
	registerToggleFlag(flagSet, &flags.localhost, config.KeyLocalhost, false, localhostFlagDescription)
	flagSet.StringSliceVar(&flags.comments, config.KeyComments, []string{types.DefaultCommentCharacter}, commentsFlagDescription)
	registerToggleFlag(flagSet, &flags.keepEmptyLines, config.KeyKeepEmptyLines, false, keepEmptyLinesFlagDescription)
	registerToggleFlag(flagSet, &flags.ignoreDotDomains, config.KeyIgnoreDotDomains, false, ignoreDotDomainsFlagDescription)
	registerToggleFlag(flagSet, &flags.fixTypos, config.KeyFixTypos, false, fixTyposFlagDescription)
	registerToggleFlag(flagSet, &flags.backup, config.KeyBackup, false, backupFlagDescription)
	registerToggleFlag(flagSet, &flags.dryRun, dryRunFlagName, false, dryRunFlagDescription)
	registerToggleFlag(flagSet, &flags.outputChanged, outputChangedFlagName, false, outputChangedFlagDescription)
	flagSet.StringVar(&flags.outputDiff, config.KeyOutputDiff, "", outputDiffFlagDescription)
	registerToggleFlag(flagSet, &flags.outputDiffIndividual, outputDiffIndividualFlagName, false, outputDiffIndividualFlagDescription)
	registerToggleFlag(flagSet, &flags.copyDiff, copyFlagName, false, copyFlagDescription)
	flagSet.StringVar(&flags.warningOutput, config.KeyWarningOutput, "", warningOutputFlagDescription)
	registerToggleFlag(flagSet, &flags.showChanges, config.KeyShowChanges, false, showChangesFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerToggleFlag(flagSet, &flags.quiet, config.KeyQuiet, false, quietFlagDescription)
	registerToggleFlag(flagSet, &flags.noColor, config.KeyNoColor, false, noColorFlagDescription)
	flagSet.IntVar(&flags.jobs, jobsFlagName, 0, jobsFlagDescription)
	flagSet.StringVar(&flags.configFile, configFileFlagName, "", configFileFlagDescription)
	registerToggleFlag(flagSet, &flags.ignoreConfig, ignoreConfigFlagName, false, ignoreConfigFlagDescription)
	registerToggleFlag(flagSet, &flags.showConfig, showConfigFlagName, false, showConfigFlagDescription)
	flagSet.StringSliceVar(&flags.fileExtensions, config.KeyFileExtensions, []string{types.DefaultFileExtension}, fileExtensionsFlagDescription)
	flagSet.StringSliceVar(&flags.ignoreFiles, config.KeyIgnoreFiles, nil, ignoreFilesFlagDescription)
	flagSet.StringSliceVar(&flags.ignoreDirs, config.KeyIgnoreDirs, nil, ignoreDirsFlagDescription)
	flagSet.StringSliceVar(&flags.ignoreAllBut, config.KeyIgnoreAllBut, nil, ignoreAllButFlagDescription)
	flagSet.StringSliceVar(&flags.localhostFiles, config.KeyLocalhostFiles, nil, localhostFilesFlagDescription)
	registerToggleFlag(flagSet, &flags.onlySortChanged, config.KeyOnlySortChanged, false, onlySortChangedFlagDescription)
	registerToggleFlag(flagSet, &flags.disableIgnored, config.KeyDisableIgnored, false, disableIgnoredFlagDescription)
	flagSet.StringSliceVar(&flags.addTimestamp, config.KeyAddTimestamp, nil, addTimestampFlagDescription)
	flagSet.StringSliceVar(&flags.addChecksum, config.KeyAddChecksum, nil, addChecksumFlagDescription)
}

// overlay applies the flags the user set explicitly on top of settings.
func (flags *sortFlags) overlay(flagSet *pflag.FlagSet, settings config.Settings) config.Settings {
	changed := flagSet.Changed
	if changed(config.KeyNoUBOConvert) {
		settings.Sort.ConvertUBOOptions = !flags.noUBOConvert
	}
	overlayBool(changed(config.KeyNoSort), &settings.Sort.NoSort, flags.noSort)
	overlayBool(changed(config.KeyAltSort), &settings.Sort.AltSort, flags.altSort)
	overlayBool(changed(config.KeyLocalhost), &settings.Sort.Localhost, flags.localhost)
	overlayList(changed(config.KeyComments), &settings.Sort.CommentCharacters, flags.comments)
	overlayBool(changed(config.KeyKeepEmptyLines), &settings.Sort.KeepEmptyLines, flags.keepEmptyLines)
	overlayBool(changed(config.KeyIgnoreDotDomains), &settings.Sort.IgnoreDotDomains, flags.ignoreDotDomains)
	overlayBool(changed(config.KeyFixTypos), &settings.Sort.FixTypos, flags.fixTypos)
	overlayBool(changed(config.KeyBackup), &settings.Sort.Backup, flags.backup)
	overlayBool(changed(config.KeyQuiet), &settings.Quiet, flags.quiet)
	overlayBool(changed(config.KeyNoColor), &settings.NoColor, flags.noColor)
	overlayList(changed(config.KeyFileExtensions), &settings.Discovery.Extensions, flags.fileExtensions)
	overlayList(changed(config.KeyIgnoreFiles), &settings.Discovery.IgnoreFiles, flags.ignoreFiles)
	overlayList(changed(config.KeyIgnoreDirs), &settings.Discovery.IgnoreDirectories, flags.ignoreDirs)
	overlayList(changed(config.KeyIgnoreAllBut), &settings.Discovery.IgnoreAllBut, flags.ignoreAllBut)
	overlayBool(changed(config.KeyDisableIgnored), &settings.Discovery.DisableBuiltinIgnores, flags.disableIgnored)
	overlayList(changed(config.KeyLocalhostFiles), &settings.LocalhostFiles, flags.localhostFiles)
	overlayBool(changed(config.KeyOnlySortChanged), &settings.OnlySortChanged, flags.onlySortChanged)
	overlayList(changed(config.KeyAddTimestamp), &settings.TimestampFiles, flags.addTimestamp)
	overlayList(changed(config.KeyAddChecksum), &settings.ChecksumFiles, flags.addChecksum)
	overlayBool(changed(config.KeyShowChanges), &settings.ShowChanges, flags.showChanges)
	if changed(config.KeyWarningOutput) {
		settings.WarningOutput = flags.warningOutput
	}
	if changed(config.KeyOutputDiff) {
		settings.OutputDiff = flags.outputDiff
	}
	settings.Sort.DryRun = flags.dryRun
	settings.Sort.OutputChanged = flags.outputChanged
	return settings
}

func overlayBool(changed bool, target *bool, value bool) {
	if changed {
		*target = value
	}
}

func overlayList(changed bool, target *[]string, values []string) {
	if changed {
		*target = utils.DeduplicatePatterns(values)
	}
}

// createSortCommand returns the sort subcommand.
func createSortCommand(deps dependencies) *cobra.Command {
	var flags sortFlags

	sortCommand := &cobra.Command{
		Use:     sortUse,
		Short:   sortShortDescription,
		Long:    sortLongDescription,
		Example: sortUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runSort(command, arguments, &flags, deps)
		},
	}
	flags.register(sortCommand.Flags())
	return sortCommand
}

// resolveSettings merges defaults, the configuration file and explicit flags. A missing
// explicit configuration file is reported through the returned warning and does not fail.
func resolveSettings(command *cobra.Command, flags *sortFlags, deps dependencies) (config.Settings, string, bool, error) {
	fileConfiguration, sourcePath, loadError := config.LoadConfiguration(config.LoadOptions{
		WorkingDirectory: deps.workingDirectory,
		HomeDirectory:    deps.homeDirectory,
		ExplicitFilePath: flags.configFile,
		Ignore:           flags.ignoreConfig,
	})
	missingConfiguration := false
	if loadError != nil {
		if !errors.Is(loadError, config.ErrConfigurationNotFound) {
			return config.Settings{}, "", false, loadError
		}
		missingConfiguration = true
	}
	settings := config.DefaultSettings().Apply(fileConfiguration)
	return flags.overlay(command.Flags(), settings), sourcePath, missingConfiguration, nil
}

func runSort(command *cobra.Command, locations []string, flags *sortFlags, deps dependencies) error {
	format, formatError := normalizeFormat(flags.format)
	if formatError != nil {
		return formatError
	}
	settings, sourcePath, missingConfiguration, settingsError := resolveSettings(command, flags, deps)
	if settingsError != nil {
		return settingsError
	}
	if flags.showConfig {
		fmt.Fprint(deps.stdout, settings.Describe(sourcePath))
		return nil
	}

	logger, loggerError := deps.newLogger(utils.LoggerOptions{Quiet: settings.Quiet, NoColor: settings.NoColor})
	if loggerError != nil {
		return fmt.Errorf(loggerInitializationErrorText, loggerError)
	}
	defer func() { _ = logger.Sync() }()
	if missingConfiguration {
		logger.Warn(configurationWarningMessage, zap.String(pathField, flags.configFile))
	}

	var warningSink warnings.Sink = warnings.NewLoggerSink(logger)
	var bufferedWarnings *warnings.BufferedSink
	if settings.WarningOutput != "" {
		bufferedWarnings = warnings.NewBufferedSink(settings.WarningOutput)
		warningSink = bufferedWarnings
	}
	var changeSink changes.Sink = changes.Nop
	var tracker *changes.Tracker
	if settings.ShowChanges {
		tracker = changes.NewTracker()
		changeSink = tracker
	}

	runner := commands.NewRunner(logger, warningSink, changeSink).WithClock(deps.now)
	summary, sortError := runner.Sort(command.Context(), commands.SortRequest{
		Locations:            locations,
		Options:              settings.Sort,
		Discovery:            settings.Discovery,
		LocalhostFiles:       settings.LocalhostFiles,
		TimestampFiles:       settings.TimestampFiles,
		ChecksumFiles:        settings.ChecksumFiles,
		OnlyChanged:          settings.OnlySortChanged,
		OutputDiffIndividual: flags.outputDiffIndividual,
		Jobs:                 flags.jobs,
	})
	if sortError != nil {
		return sortError
	}

	if bufferedWarnings != nil {
		if flushError := bufferedWarnings.Flush(); flushError != nil {
			return flushError
		}
		if len(bufferedWarnings.Messages()) > 0 {
			logger.Info(warningsWrittenMessage, zap.String(pathField, settings.WarningOutput))
		}
	}
	if settings.Sort.DryRun && !settings.Sort.OutputChanged && !flags.outputDiffIndividual {
		if diffError := deliverDiff(summary.Diff, settings.OutputDiff, flags.copyDiff, deps, logger); diffError != nil {
			return diffError
		}
	}
	if tracker != nil {
		return renderChanges(deps.stdout, tracker.Snapshot(), format)
	}
	return nil
}

// deliverDiff sends the combined dry-run diff to a file, the clipboard or stdout.
func deliverDiff(diff string, outputPath string, copyDiff bool, deps dependencies, logger *zap.Logger) error {
	if diff == "" {
		logger.Info(noChangesMessage)
		return nil
	}
	switch {
	case outputPath != "":
		if writeError := os.WriteFile(outputPath, []byte(diff), diffFilePermissions); writeError != nil {
			return fmt.Errorf(writeDiffErrorFormat, outputPath, writeError)
		}
		logger.Info(diffWrittenMessage, zap.String(pathField, outputPath))
	case copyDiff:
		if copyError := deps.copier.Copy(diff); copyError != nil {
			return fmt.Errorf(copyDiffErrorFormat, copyError)
		}
		logger.Info(diffCopiedMessage)
	default:
		fmt.Fprint(deps.stdout, diff)
	}
	return nil
}

func renderChanges(writer io.Writer, report changes.Report, format string) error {
	if format == types.FormatJSON {
		rendered, renderError := output.RenderJSON(report)
		if renderError != nil {
			return fmt.Errorf(renderErrorFormat, format, renderError)
		}
		fmt.Fprintln(writer, rendered)
		return nil
	}
	fmt.Fprint(writer, output.RenderChangesRaw(report))
	return nil
}

// createCheckCommand returns the check subcommand.
func createCheckCommand(deps dependencies) *cobra.Command {
	var outputFormat string = types.FormatRaw
	var extensions []string
	var jobs int

	checkCommand := &cobra.Command{
		Use:   checkUse,
		Short: checkShortDescription,
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			format, formatError := normalizeFormat(outputFormat)
			if formatError != nil {
				return formatError
			}
			logger, loggerError := deps.newLogger(utils.LoggerOptions{})
			if loggerError != nil {
				return fmt.Errorf(loggerInitializationErrorText, loggerError)
			}
			defer func() { _ = logger.Sync() }()

			discovery := config.DefaultSettings().Discovery
			if command.Flags().Changed(config.KeyFileExtensions) {
				discovery.Extensions = utils.DeduplicatePatterns(extensions)
			}
			reported, checkError := commands.NewRunner(logger, nil, nil).Check(command.Context(), arguments, discovery, jobs)
			if checkError != nil {
				return checkError
			}
			if format == types.FormatJSON {
				if reported == nil {
					reported = []commands.FileFindings{}
				}
				rendered, renderError := output.RenderJSON(reported)
				if renderError != nil {
					return fmt.Errorf(renderErrorFormat, format, renderError)
				}
				fmt.Fprintln(deps.stdout, rendered)
			} else {
				fmt.Fprint(deps.stdout, output.RenderFindingsRaw(reported))
			}
			if len(reported) > 0 {
				return errTyposFound
			}
			return nil
		},
	}
	checkCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	checkCommand.Flags().StringSliceVar(&extensions, config.KeyFileExtensions, []string{types.DefaultFileExtension}, fileExtensionsFlagDescription)
	checkCommand.Flags().IntVar(&jobs, jobsFlagName, 0, jobsFlagDescription)
	return checkCommand
}

// createChecksumCommand returns the checksum command with its add and verify subcommands.
func createChecksumCommand(deps dependencies) *cobra.Command {
	var outputFormat string = types.FormatRaw
	var useHash bool

	checksumCommand := &cobra.Command{
		Use:   checksumUse,
		Short: checksumShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	checksumCommand.PersistentFlags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)

	addCommand := &cobra.Command{
		Use:   checksumAddUse,
		Short: checksumAddDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			format, formatError := normalizeFormat(outputFormat)
			if formatError != nil {
				return formatError
			}
			reports, addError := commands.AddChecksums(arguments, useHash)
			if addError != nil {
				return addError
			}
			return renderChecksums(deps.stdout, reports, format, true)
		},
	}
	registerToggleFlag(addCommand.Flags(), &useHash, checksumLocalhostFlagName, false, checksumLocalhostFlagUsage)

	verifyCommand := &cobra.Command{
		Use:   checksumVerifyUse,
		Short: checksumVerifyDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			format, formatError := normalizeFormat(outputFormat)
			if formatError != nil {
				return formatError
			}
			reports, verifyError := commands.VerifyChecksums(arguments)
			if verifyError != nil {
				return verifyError
			}
			if renderError := renderChecksums(deps.stdout, reports, format, false); renderError != nil {
				return renderError
			}
			if !commands.AllValid(reports) {
				return errChecksumInvalid
			}
			return nil
		},
	}

	checksumCommand.AddCommand(addCommand, verifyCommand)
	return checksumCommand
}

func renderChecksums(writer io.Writer, reports []commands.ChecksumReport, format string, added bool) error {
	if format == types.FormatJSON {
		rendered, renderError := output.RenderJSON(reports)
		if renderError != nil {
			return fmt.Errorf(renderErrorFormat, format, renderError)
		}
		fmt.Fprintln(writer, rendered)
		return nil
	}
	fmt.Fprint(writer, output.RenderChecksumsRaw(reports, added))
	return nil
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: deps.workingDirectory,
				HomeDirectory:    deps.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(deps.stdout, configurationWrittenMessage, destinationPath)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}
