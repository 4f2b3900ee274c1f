package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/temirov/promptpick/internal/config"
	"github.com/temirov/promptpick/internal/output"
	"github.com/temirov/promptpick/internal/tokenizer"
	"github.com/temirov/promptpick/internal/types"
)

const (
	treeCommandShort   = "list the directory with selection and expansion markers"
	selectCommandShort = "toggle the selection of files"
	expandCommandShort = "toggle the expansion of directories"
	exportCommandShort = "print or copy the export document of the selection"
	statusCommandShort = "show the selection statistics"
	clearCommandShort  = "forget the selection and the expanded directories"

	selectCommandUse = types.CommandSelect + " [paths...]"
	expandCommandUse = types.CommandExpand + " [directories...]"
	treeCommandUse   = types.CommandTree + " [directory]"
	exportCommandUse = types.CommandExport + " [directory]"
	statusCommandUse = types.CommandStatus + " [directory]"

	exactTokensFormat = "Tokens (%s): %d\n"
	copiedMessage     = "export document copied to clipboard"
)

var (
	errConflictingScopeFlags = errors.New("--all and --none cannot be combined")
	errNothingToSelect       = errors.New("provide paths, --all or --none")
	errNothingToExpand       = errors.New("provide directories, --all or --none")
)

func createTreeCommand(options *rootOptions, env environment) *cobra.Command {
	var expandedOnly bool
	treeCommand := &cobra.Command{
		Use:   treeCommandUse,
		Short: treeCommandShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runWithApplication(options, env, func(app *application) error {
				state, openError := app.openDirectory(command.Context(), directoryArgument(options, arguments))
				if openError != nil {
					return openError
				}
				writer := command.OutOrStdout()
				fmt.Fprint(writer, output.RenderListing(state, output.ListingOptions{ExpandedOnly: expandedOnly}))
				fmt.Fprintln(writer, output.Summary(state))
				return nil
			})
		},
	}
	registerBooleanFlag(treeCommand.Flags(), &expandedOnly, expandedOnlyFlag, false, expandedOnlyFlagDescription)
	return treeCommand
}

func createSelectCommand(options *rootOptions, env environment) *cobra.Command {
	var selectAll bool
	var selectNone bool
	selectCommand := &cobra.Command{
		Use:   selectCommandUse,
		Short: selectCommandShort,
		RunE: func(command *cobra.Command, arguments []string) error {
			if selectAll && selectNone {
				return errConflictingScopeFlags
			}
			if !selectAll && !selectNone && len(arguments) == 0 {
				return errNothingToSelect
			}
			return runWithApplication(options, env, func(app *application) error {
				ctx := command.Context()
				state, openError := app.openDirectory(ctx, options.rootDirectory)
				if openError != nil {
					return openError
				}
				var applyError error
				switch {
				case selectNone:
					state, applyError = app.session.DeselectAll(ctx)
				case selectAll:
					state, applyError = app.session.SelectAll(ctx)
				}
				if applyError != nil {
					return applyError
				}
				for _, argument := range arguments {
					state, applyError = app.session.ToggleSelection(ctx, app.resolveEntry(state, argument))
					if applyError != nil {
						return applyError
					}
				}
				fmt.Fprintln(command.OutOrStdout(), output.Summary(state))
				return nil
			})
		},
	}
	registerBooleanFlag(selectCommand.Flags(), &selectAll, allFlagName, false, allFlagDescription)
	registerBooleanFlag(selectCommand.Flags(), &selectNone, noneFlagName, false, noneFlagDescription)
	return selectCommand
}

func createExpandCommand(options *rootOptions, env environment) *cobra.Command {
	var expandAll bool
	var collapseAll bool
	expandCommand := &cobra.Command{
		Use:   expandCommandUse,
		Short: expandCommandShort,
		RunE: func(command *cobra.Command, arguments []string) error {
			if expandAll && collapseAll {
				return errConflictingScopeFlags
			}
			if !expandAll && !collapseAll && len(arguments) == 0 {
				return errNothingToExpand
			}
			return runWithApplication(options, env, func(app *application) error {
				ctx := command.Context()
				state, openError := app.openDirectory(ctx, options.rootDirectory)
				if openError != nil {
					return openError
				}
				var applyError error
				switch {
				case collapseAll:
					state, applyError = app.session.CollapseAll(ctx)
				case expandAll:
					state, applyError = app.session.ExpandAll(ctx)
				}
				if applyError != nil {
					return applyError
				}
				for _, argument := range arguments {
					state, applyError = app.session.ToggleExpansion(ctx, app.resolveEntry(state, argument))
					if applyError != nil {
						return applyError
					}
				}
				fmt.Fprint(command.OutOrStdout(), output.RenderListing(state, output.ListingOptions{ExpandedOnly: true}))
				return nil
			})
		},
	}
	registerBooleanFlag(expandCommand.Flags(), &expandAll, allFlagName, false, allFlagDescription)
	registerBooleanFlag(expandCommand.Flags(), &collapseAll, noneFlagName, false, noneFlagDescription)
	return expandCommand
}

func createExportCommand(options *rootOptions, env environment) *cobra.Command {
	var copyEnabled bool
	exportCommand := &cobra.Command{
		Use:   exportCommandUse,
		Short: exportCommandShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runWithApplication(options, env, func(app *application) error {
				state, openError := app.openDirectory(command.Context(), directoryArgument(options, arguments))
				if openError != nil {
					return openError
				}
				copyRequested := app.configuration.CopyByDefault()
				if command.Flags().Changed(copyFlagName) {
					copyRequested = copyEnabled
				}
				return writeExport(command.OutOrStdout(), app, state, copyRequested)
			})
		},
	}
	registerBooleanFlag(exportCommand.Flags(), &copyEnabled, copyFlagName, false, copyFlagDescription)
	return exportCommand
}

func writeExport(writer io.Writer, app *application, state types.ViewerState, copyRequested bool) error {
	if !copyRequested {
		_, writeError := io.WriteString(writer, app.session.Export())
		return writeError
	}
	if _, copyError := app.session.CopyToClipboard(); copyError != nil {
		return copyError
	}
	fmt.Fprintln(writer, copiedMessage)
	fmt.Fprintln(writer, output.Summary(state))
	return nil
}

func createStatusCommand(options *rootOptions, env environment) *cobra.Command {
	var model string
	statusCommand := &cobra.Command{
		Use:   statusCommandUse,
		Short: statusCommandShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runWithApplication(options, env, func(app *application) error {
				state, openError := app.openDirectory(command.Context(), directoryArgument(options, arguments))
				if openError != nil {
					return openError
				}
				writer := command.OutOrStdout()
				fmt.Fprintln(writer, output.Summary(state))

				requestedModel := app.configuration.Tokens.Model
				if command.Flags().Changed(modelFlagName) {
					requestedModel = model
				}
				counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: requestedModel})
				if counterError != nil {
					return counterError
				}
				if resolvedModel == tokenizer.EstimateModelName {
					return nil
				}
				texts := make([]string, 0, state.FileContents.Len())
				for _, path := range state.SelectedPaths.Paths() {
					if text, loaded := state.FileContents.Get(path); loaded {
						texts = append(texts, text)
					}
				}
				total, countError := tokenizer.CountTexts(counter, texts)
				if countError != nil {
					return countError
				}
				fmt.Fprintf(writer, exactTokensFormat, resolvedModel, total)
				return nil
			})
		},
	}
	statusCommand.Flags().StringVar(&model, modelFlagName, "", modelFlagDescription)
	return statusCommand
}

func createClearCommand(options *rootOptions, env environment) *cobra.Command {
	return &cobra.Command{
		Use:   types.CommandClear,
		Short: clearCommandShort,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runWithApplication(options, env, func(app *application) error {
				state, clearError := app.session.Clear(command.Context())
				if clearError != nil {
					return clearError
				}
				fmt.Fprintln(command.OutOrStdout(), output.Summary(state))
				return nil
			})
		},
	}
}

func runConfigInit(command *cobra.Command, global bool, force bool) error {
	target := config.InitTargetLocal
	if global {
		target = config.InitTargetGlobal
	}
	path, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
	if initError != nil {
		return initError
	}
	fmt.Fprintf(command.OutOrStdout(), configWrittenFormat, path)
	return nil
}
