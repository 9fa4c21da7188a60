package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWorkflow()
	c.normalizeWatcher()
	c.normalizeTimeouts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Journal.Enabled {
		if strings.TrimSpace(c.Journal.Path) == "" {
			c.Journal.Path = defaultJournalPath
		}
		if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
			return fmt.Errorf("journal.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWorkflow() {
	c.Workflow.DefaultPlugin = strings.TrimSpace(c.Workflow.DefaultPlugin)
	if c.Workflow.DefaultPlugin == "" {
		c.Workflow.DefaultPlugin = defaultPlugin
	}
}

func (c *Config) normalizeWatcher() {
	c.Watcher.MetadataFilename = strings.TrimSpace(c.Watcher.MetadataFilename)
	if c.Watcher.MetadataFilename == "" {
		c.Watcher.MetadataFilename = defaultMetadataFilename
	}
	if c.Watcher.StabilitySeconds <= 0 {
		c.Watcher.StabilitySeconds = defaultStabilitySeconds
	}
}

func (c *Config) normalizeTimeouts() {
	if c.Schema.RequestTimeout <= 0 {
		c.Schema.RequestTimeout = defaultSchemaTimeout
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
