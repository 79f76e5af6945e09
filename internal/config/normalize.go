package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	c.Resolver.BaseURL = strings.TrimRight(strings.TrimSpace(c.Resolver.BaseURL), "/")
	if c.Resolver.BaseURL == "" {
		c.Resolver.BaseURL = defaultResolverBaseURL
	}
	c.Resolver.Contact = strings.TrimSpace(c.Resolver.Contact)
	if c.Resolver.Contact == "" {
		if value, ok := os.LookupEnv("UNIPROT_CONTACT"); ok {
			c.Resolver.Contact = strings.TrimSpace(value)
		}
	}
	if c.Resolver.BatchSize <= 0 {
		c.Resolver.BatchSize = defaultResolverBatchSize
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		c.Resolver.TimeoutSeconds = defaultResolverTimeoutSeconds
	}
}

func (c *Config) normalizeMatching() {
	c.Matching.CompositeHandling = strings.ToLower(strings.TrimSpace(c.Matching.CompositeHandling))
	if c.Matching.CompositeHandling == "" {
		c.Matching.CompositeHandling = defaultCompositeHandling
	}
	if strings.TrimSpace(c.Matching.CompositeDelimiter) == "" {
		c.Matching.CompositeDelimiter = defaultCompositeDelimiter
	}
	c.Matching.PartialMatchHandling = strings.ToLower(strings.TrimSpace(c.Matching.PartialMatchHandling))
	if c.Matching.PartialMatchHandling == "" {
		c.Matching.PartialMatchHandling = defaultPartialMatchHandling
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
