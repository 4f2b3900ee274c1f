package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/promptpick/internal/config"
	"github.com/temirov/promptpick/internal/extract"
	"github.com/temirov/promptpick/internal/session"
	"github.com/temirov/promptpick/internal/store"
	"github.com/temirov/promptpick/internal/types"
	"github.com/temirov/promptpick/internal/utils"
	"github.com/temirov/promptpick/internal/walker"
)

const (
	storeCloseTimeout = 10 * time.Second

	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorLoadConfigFormat       = "load configuration: %w"
	errorLoggerFormat           = "initialize logger: %w"
	errorStoreOptionsFormat     = "configure state store: %w"
	errorExtractorFormat        = "initialize extractor: %w"
	errorResolveDirectoryFormat = "resolve directory %s: %w"
	errorOpenDirectoryFormat    = "open directory: %w"
	errorInterruptedScanFormat  = "%w: %w"
	errorCloseStoreFormat       = "persist state: %w"

	logMessageStateFile    = "using state file"
	logMessageStateChanged = "state changed"
	logFieldStateFile      = "state_file"
	logFieldSelected       = "selected"
	logFieldLoaded         = "loaded"
	logFieldExpanded       = "expanded"
	logFieldTokens         = "tokens"
)

var errScanInterrupted = errors.New("directory scan interrupted")

// application bundles the collaborators shared by the commands of one run.
type application struct {
	configuration    config.ApplicationConfiguration
	workingDirectory string
	logger           *zap.Logger
	store            *store.Store
	extractor        *extract.Extractor
	session          *session.Session
	finder           multiFinder
	stateLogDone     <-chan struct{}
}

func openApplication(options *rootOptions, env environment) (*application, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return nil, fmt.Errorf(errorLoadConfigFormat, configurationError)
	}

	logLevel := strings.TrimSpace(options.logLevel)
	if logLevel == "" {
		logLevel = configuration.Log.Level
	}
	logger, loggerError := utils.NewApplicationLogger(logLevel)
	if loggerError != nil {
		return nil, fmt.Errorf(errorLoggerFormat, loggerError)
	}

	quietPeriod, quietPeriodError := configuration.QuietPeriod()
	if quietPeriodError != nil {
		return nil, fmt.Errorf(errorStoreOptionsFormat, quietPeriodError)
	}
	statePath := configuration.StateFilePath(workingDirectory)
	if strings.TrimSpace(options.stateFile) != "" {
		statePath = utils.ResolveAgainstRoot(workingDirectory, options.stateFile)
	}
	logger.Debug(logMessageStateFile, zap.String(logFieldStateFile, statePath))

	extractor, extractorError := extract.NewExtractor(configuration.ExtractOptions(), logger)
	if extractorError != nil {
		return nil, fmt.Errorf(errorExtractorFormat, extractorError)
	}

	viewerStore := store.New(store.Options{
		Persister:   store.NewJSONFilePersister(statePath, logger),
		QuietPeriod: quietPeriod,
		Logger:      logger,
	})
	viewerSession := session.New(session.Dependencies{
		Store:     viewerStore,
		Scanner:   walker.NewScanner(configuration.WalkerOptions(), logger),
		Extractor: extractor,
		Copier:    env.copier,
		Logger:    logger,
		Workers:   configuration.Workers(),
	})

	finder := env.finder
	if finder == nil {
		finder = interactiveFinder
	}
	return &application{
		configuration:    configuration,
		workingDirectory: workingDirectory,
		logger:           logger,
		store:            viewerStore,
		extractor:        extractor,
		session:          viewerSession,
		finder:           finder,
		stateLogDone:     logStateChanges(viewerStore.Subscribe(), logger),
	}, nil
}

// logStateChanges writes a debug line for every state it receives until
// states is closed, then closes the returned channel.
func logStateChanges(states <-chan types.ViewerState, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for state := range states {
			logger.Debug(logMessageStateChanged,
				zap.Int(logFieldSelected, state.Stats.SelectedCount),
				zap.Int(logFieldLoaded, state.FileContents.Len()),
				zap.Int(logFieldExpanded, state.ExpandedPaths.Len()),
				zap.Int(logFieldTokens, state.Stats.TotalTokens))
		}
	}()
	return done
}

// close writes the pending save and releases the store goroutine.
func (app *application) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
	defer cancel()
	closeError := app.store.Close(ctx)
	if closeError != nil {
		_ = app.logger.Sync()
		return fmt.Errorf(errorCloseStoreFormat, closeError)
	}
	<-app.stateLogDone
	_ = app.logger.Sync()
	return nil
}

// openDirectory scans directory and re-applies the persisted selection.
func (app *application) openDirectory(ctx context.Context, directory string) (types.ViewerState, error) {
	absoluteDirectory, resolveError := utils.AbsolutePath(utils.ResolveAgainstRoot(app.workingDirectory, directory))
	if resolveError != nil {
		return types.ViewerState{}, fmt.Errorf(errorResolveDirectoryFormat, directory, resolveError)
	}
	state, openError := app.session.OpenDirectory(ctx, absoluteDirectory, true)
	if walker.IsCancellation(openError) {
		return state, fmt.Errorf(errorInterruptedScanFormat, errScanInterrupted, openError)
	}
	if openError != nil {
		return state, fmt.Errorf(errorOpenDirectoryFormat, openError)
	}
	return state, nil
}

// resolveEntry turns a command argument into the absolute path used by the
// tree, relative arguments being taken against the opened root.
func (app *application) resolveEntry(state types.ViewerState, argument string) string {
	if state.Root == nil {
		return utils.ResolveAgainstRoot(app.workingDirectory, argument)
	}
	return utils.ResolveAgainstRoot(state.Root.Path, argument)
}

// runWithApplication opens an application for action and always closes it,
// so that the last change reaches the state file.
func runWithApplication(options *rootOptions, env environment, action func(app *application) error) (err error) {
	app, openError := openApplication(options, env)
	if openError != nil {
		return openError
	}
	defer func() {
		if closeError := app.close(); err == nil {
			err = closeError
		}
	}()
	return action(app)
}
