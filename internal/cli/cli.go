// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/temirov/promptpick/internal/services/clipboard"
	"github.com/temirov/promptpick/internal/utils"
)

const (
	rootUse              = "promptpick"
	rootShortDescription = "select project files and export them as one prompt"
	rootLongDescription  = `promptpick scans a directory, keeps a persistent selection of its text files
and exports the selection as a folder structure followed by every selected file.
The selection and the expanded directories are stored in fileviewer.json between runs.`

	versionFlagName    = "version"
	configFlagName     = "config"
	stateFlagName      = "state"
	logLevelFlagName   = "log-level"
	rootFlagName       = "root"
	rootFlagShorthand  = "r"
	allFlagName        = "all"
	noneFlagName       = "none"
	copyFlagName       = "copy"
	expandedOnlyFlag   = "expanded-only"
	modelFlagName      = "model"
	globalFlagName     = "global"
	forceFlagName      = "force"
	defaultPath        = "."
	versionTemplate    = "promptpick version: %s\n"
	configCommandUse   = "config"
	configInitUse      = "init"
	configCommandShort = "manage promptpick configuration"
	configInitShort    = "write the default configuration file"

	versionFlagDescription      = "display application version"
	configFlagDescription       = "configuration file overriding " + utils.ConfigFileName + " in the working directory"
	stateFlagDescription        = "file holding the persisted selection"
	logLevelFlagDescription     = "log level (debug, info, warn, error)"
	rootFlagDescription         = "directory whose files are selected"
	allFlagDescription          = "apply to every file or directory"
	noneFlagDescription         = "clear the selection or collapse every directory"
	copyFlagDescription         = "copy the export document to the clipboard instead of printing it"
	expandedOnlyFlagDescription = "hide the contents of collapsed directories"
	modelFlagDescription        = "tokenizer model for an exact token count"
	globalFlagDescription       = "write the configuration under the home directory"
	forceFlagDescription        = "overwrite an existing configuration file"

	configWrittenFormat = "configuration written to %s\n"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath    string
	stateFile     string
	logLevel      string
	rootDirectory string
}

// environment carries the collaborators that touch the terminal or the
// desktop session.
type environment struct {
	copier clipboard.Copier
	finder multiFinder
}

// Execute runs the promptpick application.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCommand := createRootCommand(environment{copier: clipboard.NewService(), finder: interactiveFinder})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(env environment) *cobra.Command {
	var showVersion bool
	options := &rootOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
	}
	registerBooleanFlag(rootCommand.Flags(), &showVersion, versionFlagName, false, versionFlagDescription)
	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	persistentFlags.StringVar(&options.stateFile, stateFlagName, "", stateFlagDescription)
	persistentFlags.StringVar(&options.logLevel, logLevelFlagName, "", logLevelFlagDescription)
	persistentFlags.StringVarP(&options.rootDirectory, rootFlagName, rootFlagShorthand, defaultPath, rootFlagDescription)

	rootCommand.AddCommand(
		createTreeCommand(options, env),
		createSelectCommand(options, env),
		createExpandCommand(options, env),
		createPickCommand(options, env),
		createExportCommand(options, env),
		createStatusCommand(options, env),
		createClearCommand(options, env),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// directoryArgument picks the optional positional directory over --root.
func directoryArgument(options *rootOptions, arguments []string) string {
	if len(arguments) > 0 {
		return arguments[0]
	}
	return options.rootDirectory
}

func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configCommandUse,
		Short: configCommandShort,
	}
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runConfigInit(command, global, force)
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
