package utils

const (
	// GlobalConfigDirectoryName is the directory under the user's home that
	// holds the global configuration file.
	GlobalConfigDirectoryName = ".promptpick"
	// ConfigFileName is the configuration file looked up globally and in the
	// working directory.
	ConfigFileName = "promptpick.yaml"
	// DefaultStateFileName stores the persisted selection and expansion.
	DefaultStateFileName = "fileviewer.json"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the error that ended a run.
	ApplicationExecutionFailedMessage = "application execution failed"
)
