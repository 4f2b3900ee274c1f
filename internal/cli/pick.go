package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/temirov/promptpick/internal/output"
	"github.com/temirov/promptpick/internal/selection"
	"github.com/temirov/promptpick/internal/types"
	"github.com/temirov/promptpick/internal/utils"
)

const (
	pickCommandUse   = types.CommandPick + " [directory]"
	pickCommandShort = "choose files to toggle with a fuzzy finder"
	pickHeader       = "Tab marks files to toggle, Enter confirms"
	pickPromptHint   = "Marked files are added to or removed from the selection."

	pickSelectedMarker   = "[x] "
	pickUnselectedMarker = "[ ] "
	pickAbortedMessage   = "selection unchanged"
	previewErrorFormat   = "%s\n\n%v"
	previewEllipsis      = "…"

	errorNoSelectableFilesFormat = "no selectable files under %s"
	errorFinderFormat            = "fuzzy finder: %w"
)

var errNotInteractive = errors.New("pick needs an interactive terminal")

// multiFinder presents labels and returns the indexes the user marked.
// preview renders the item at index within the given width and lines.
type multiFinder func(labels []string, preview previewFunc) ([]int, error)

type previewFunc func(index int, width int, lines int) string

// interactiveFinder runs fuzzyMultiFinder when standard input is a terminal.
func interactiveFinder(labels []string, preview previewFunc) ([]int, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errNotInteractive
	}
	return fuzzyMultiFinder(labels, preview)
}

func fuzzyMultiFinder(labels []string, preview previewFunc) ([]int, error) {
	return fuzzyfinder.FindMulti(
		labels,
		func(index int) string {
			return labels[index]
		},
		fuzzyfinder.WithHeader(pickHeader),
		fuzzyfinder.WithPreviewWindow(func(index, width, height int) string {
			if index < 0 {
				return pickPromptHint
			}
			return preview(index, width, height)
		}),
	)
}

func createPickCommand(options *rootOptions, env environment) *cobra.Command {
	return &cobra.Command{
		Use:   pickCommandUse,
		Short: pickCommandShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runWithApplication(options, env, func(app *application) error {
				ctx := command.Context()
				state, openError := app.openDirectory(ctx, directoryArgument(options, arguments))
				if openError != nil {
					return openError
				}
				candidates := selection.AllSelectablePaths(state.Root).Paths()
				if len(candidates) == 0 {
					return fmt.Errorf(errorNoSelectableFilesFormat, state.Root.Path)
				}
				labels := make([]string, len(candidates))
				for index, candidate := range candidates {
					marker := pickUnselectedMarker
					if state.SelectedPaths.Contains(candidate) {
						marker = pickSelectedMarker
					}
					labels[index] = marker + utils.RelativePathOrSelf(candidate, state.Root.Path)
				}

				chosen, finderError := app.finder(labels, func(index int, width int, lines int) string {
					return app.previewText(candidates[index], width, lines)
				})
				if errors.Is(finderError, fuzzyfinder.ErrAbort) {
					fmt.Fprintln(command.OutOrStdout(), pickAbortedMessage)
					return nil
				}
				if finderError != nil {
					return fmt.Errorf(errorFinderFormat, finderError)
				}
				for _, index := range chosen {
					if index < 0 || index >= len(candidates) {
						continue
					}
					var toggleError error
					state, toggleError = app.session.ToggleSelection(ctx, candidates[index])
					if toggleError != nil {
						return toggleError
					}
				}
				fmt.Fprintln(command.OutOrStdout(), output.Summary(state))
				return nil
			})
		},
	}
}

// previewText returns the leading lines of the text of path, each cut to
// width display cells. Non-positive limits disable the cut.
func (app *application) previewText(path string, width int, lines int) string {
	text, extractError := app.extractor.ExtractText(path)
	if extractError != nil {
		return fmt.Sprintf(previewErrorFormat, path, extractError)
	}
	var textLines []string
	if lines > 0 {
		textLines = strings.SplitN(text, "\n", lines+1)
		if len(textLines) > lines {
			textLines = textLines[:lines]
		}
	} else {
		textLines = strings.Split(text, "\n")
	}
	if width > 0 {
		for index, line := range textLines {
			textLines[index] = runewidth.Truncate(line, width, previewEllipsis)
		}
	}
	return strings.Join(textLines, "\n")
}
