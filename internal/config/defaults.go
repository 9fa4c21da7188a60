package config

const (
	defaultWorkDir          = "~/.local/share/hornet-flow/work"
	defaultLogDir           = "~/.local/share/hornet-flow/logs"
	defaultJournalPath      = "~/.local/share/hornet-flow/journal.db"
	defaultPlugin           = "debug"
	defaultMetadataFilename = "metadata.json"
	defaultStabilitySeconds = 2.0
	defaultSchemaTimeout    = 30
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Workflow: Workflow{
			DefaultPlugin: defaultPlugin,
		},
		Watcher: Watcher{
			MetadataFilename: defaultMetadataFilename,
			StabilitySeconds: defaultStabilitySeconds,
		},
		Schema: Schema{
			RequestTimeout: defaultSchemaTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
