// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/retouch/internal/commands"
	"github.com/temirov/retouch/internal/config"
	"github.com/temirov/retouch/internal/output"
	"github.com/temirov/retouch/internal/services/clipboard"
	"github.com/temirov/retouch/internal/types"
	"github.com/temirov/retouch/internal/verify"
)

const (
	versionFlagName          = "version"
	configFlagName           = "config"
	formatFlagName           = "format"
	formatterFlagName        = "formatter"
	noGitignoreFlagName      = "no-gitignore"
	copyFlagName             = "copy"
	revisionFlagName         = "revision"
	formatterCommandFlagName = "formatter-command"
	checkSyntaxFlagName      = "check-syntax"
	workersFlagName          = "workers"
	globalFlagName           = "global"
	forceFlagName            = "force"

	versionTemplate      = "retouch version: %s\n"
	defaultPath          = "."
	rootUse              = "retouch"
	rootShortDescription = "retouch command line interface"
	rootLongDescription  = `retouch finds the Python files a formatter would touch in a Git repository
and shows how reformatting them lines up with the lines edited since a revision.
Use --config to point at a specific pyproject.toml and --version to print the application version.`

	rootCommandUse          = "root [paths...]"
	rootCommandShort        = "print the repository root shared by the paths"
	filesUse                = "files [paths...]"
	filesAlias              = "f"
	filesShortDescription   = "list candidate files (" + filesAlias + ")"
	filesLongDescription    = `List the files below the repository root that the formatter would process.
Directories are expanded using the formatter's include and exclude patterns and .gitignore files;
files named explicitly are always listed. Use --format to select raw, json, or xml output.`
	filesUsageExample = `  # List candidates as JSON
  retouch files --format json src tests

  # Ignore .gitignore rules and copy the listing
  retouch files --no-gitignore --copy`
	chunksUse              = "chunks [paths...]"
	chunksAlias            = "c"
	chunksShortDescription = "show reformatting chunks against edited lines (" + chunksAlias + ")"
	chunksLongDescription  = `Reformat every candidate file with the formatter command and print, per file,
the aligned chunks of original and reformatted lines. Original lines edited since --revision are marked with "*".`
	chunksUsageExample = `  # Compare against the main branch using four workers
  retouch chunks --revision main --workers 4 .`
	initUse              = "init"
	initShortDescription = "write a default configuration"

	configFlagDescription           = "path to a pyproject.toml file"
	formatFlagDescription           = "output format"
	formatterFlagDescription        = "formatter whose file selection rules apply (black or none)"
	noGitignoreFlagDescription      = "do not use .gitignore"
	copyFlagDescription             = "copy the output to the clipboard"
	revisionFlagDescription         = "revision to measure edits against"
	formatterCommandFlagDescription = "command that reformats standard input to standard output"
	checkSyntaxFlagDescription      = "verify reformatted files still parse"
	workersFlagDescription          = "number of files processed concurrently"
	globalFlagDescription           = "write the user-level configuration file"
	forceFlagDescription            = "overwrite an existing configuration file"
	versionFlagDescription          = "display application version"

	invalidFormatMessage          = "Invalid format value '%s'"
	configurationWrittenFormat    = "configuration written to %s\n"
	syntaxCheckUnavailableMessage = "Warning: syntax checking requires cgo; continuing without it"
	clipboardCopyErrorFormat      = "copy to clipboard: %w"
)

// application carries the collaborators shared by every subcommand.
type application struct {
	logger *zap.Logger
	copier clipboard.Copier
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the retouch application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(application{logger: logger, copier: clipboard.NewSystem()})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app application) *cobra.Command {
	var showVersion bool
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, applicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createRepositoryRootCommand(),
		createFilesCommand(app, &configurationPath),
		createChunksCommand(app, &configurationPath),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func defaultPaths(arguments []string) []string {
	if len(arguments) == 0 {
		return []string{defaultPath}
	}
	return arguments
}

// selectionOptions stores flags shared by commands that select candidate files.
type selectionOptions struct {
	formatter        string
	disableGitignore bool
}

func addSelectionFlags(command *cobra.Command, options *selectionOptions) {
	command.Flags().StringVar(&options.formatter, formatterFlagName, "", formatterFlagDescription)
	registerToggleFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
}

func (options selectionOptions) overrides(command *cobra.Command) config.ApplicationConfiguration {
	var override config.ApplicationConfiguration
	if command.Flags().Changed(formatterFlagName) {
		override.Formatter = options.formatter
	}
	if command.Flags().Changed(noGitignoreFlagName) {
		useGitignore := !options.disableGitignore
		override.UseGitignore = &useGitignore
	}
	return override
}

// loadConfiguration reads the configuration for paths and applies flag overrides.
func (app application) loadConfiguration(paths []string, explicitPath string, override config.ApplicationConfiguration) (config.ApplicationConfiguration, error) {
	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		SearchStart:      paths,
		ExplicitFilePath: explicitPath,
	}, app.logger)
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	return loaded.Merge(override), nil
}

func createRepositoryRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   rootCommandUse,
		Short: rootCommandShort,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			root, rootError := commands.GetRepositoryRoot(defaultPaths(arguments))
			if rootError != nil {
				return rootError
			}
			fmt.Fprintln(command.OutOrStdout(), root)
			return nil
		},
	}
}

// createFilesCommand returns the files subcommand.
func createFilesCommand(app application, configurationPath *string) *cobra.Command {
	var selection selectionOptions
	var outputFormat string
	var copyOutput bool

	filesCommand := &cobra.Command{
		Use:     filesUse,
		Aliases: []string{filesAlias},
		Short:   filesShortDescription,
		Long:    filesLongDescription,
		Example: filesUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(outputFormat)
			if !isSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormatLower)
			}
			paths := defaultPaths(arguments)
			override := selection.overrides(command)
			if command.Flags().Changed(copyFlagName) {
				override.Copy = &copyOutput
			}
			configuration, configurationError := app.loadConfiguration(paths, *configurationPath, override)
			if configurationError != nil {
				return configurationError
			}
			listing, listingError := commands.GetCandidateFiles(commands.FilesRequest{
				Paths:         paths,
				Configuration: configuration,
				Logger:        app.logger,
			})
			if listingError != nil {
				return listingError
			}
			rendered, renderError := output.RenderCandidates(listing, outputFormatLower)
			if renderError != nil {
				return renderError
			}
			fmt.Fprint(command.OutOrStdout(), rendered)
			if config.BoolValue(configuration.Copy) && app.copier != nil {
				if copyError := app.copier.Copy(rendered); copyError != nil {
					return fmt.Errorf(clipboardCopyErrorFormat, copyError)
				}
			}
			return nil
		},
	}

	addSelectionFlags(filesCommand, &selection)
	filesCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerToggleFlag(filesCommand.Flags(), &copyOutput, copyFlagName, false, copyFlagDescription)
	return filesCommand
}

// createChunksCommand returns the chunks subcommand.
func createChunksCommand(app application, configurationPath *string) *cobra.Command {
	var selection selectionOptions
	var revision string
	var formatterCommand string
	var checkSyntax bool
	var workers int

	chunksCommand := &cobra.Command{
		Use:     chunksUse,
		Aliases: []string{chunksAlias},
		Short:   chunksShortDescription,
		Long:    chunksLongDescription,
		Example: chunksUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			paths := defaultPaths(arguments)
			override := selection.overrides(command)
			if command.Flags().Changed(revisionFlagName) {
				override.Revision = revision
			}
			if command.Flags().Changed(formatterCommandFlagName) {
				override.FormatterCommand = formatterCommand
			}
			if command.Flags().Changed(checkSyntaxFlagName) {
				override.CheckSyntax = &checkSyntax
			}
			if command.Flags().Changed(workersFlagName) {
				override.Workers = &workers
			}
			configuration, configurationError := app.loadConfiguration(paths, *configurationPath, override)
			if configurationError != nil {
				return configurationError
			}

			var checker verify.Checker
			if config.BoolValue(configuration.CheckSyntax) {
				checker = verify.NewPythonChecker()
				if checker == nil && app.logger != nil {
					app.logger.Warn(syntaxCheckUnavailableMessage)
				}
			}
			reports, reportError := commands.GetFileReports(command.Context(), commands.ChunksRequest{
				Paths:         paths,
				Configuration: configuration,
				Checker:       checker,
				Logger:        app.logger,
			})
			if reportError != nil {
				return reportError
			}
			return output.WriteFileReports(command.OutOrStdout(), reports)
		},
	}

	addSelectionFlags(chunksCommand, &selection)
	chunksCommand.Flags().StringVar(&revision, revisionFlagName, config.DefaultRevision, revisionFlagDescription)
	chunksCommand.Flags().StringVar(&formatterCommand, formatterCommandFlagName, config.DefaultFormatterCommand, formatterCommandFlagDescription)
	registerToggleFlag(chunksCommand.Flags(), &checkSyntax, checkSyntaxFlagName, false, checkSyntaxFlagDescription)
	chunksCommand.Flags().IntVar(&workers, workersFlagName, config.DefaultWorkers, workersFlagDescription)
	return chunksCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
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
			path, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, path)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
