package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"biobridge/internal/config"
	"biobridge/internal/dataset"
	"biobridge/internal/logging"
	"biobridge/internal/resolver"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openCatalog() (*dataset.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return dataset.OpenCatalog(cfg.Paths.CatalogPath)
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	paths := cfg.Logging.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stderr", filepath.Join(cfg.Paths.LogDir, "biobridge.log")}
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}

// newResolver builds the accession resolution client, or returns nil when the
// resolver section is disabled.
func (c *commandContext) newResolver() (resolver.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Resolver.Enabled {
		return nil, nil
	}
	client, err := resolver.New(cfg.Resolver.BaseURL, cfg.Resolver.Contact,
		resolver.WithBatchSize(cfg.Resolver.BatchSize),
		resolver.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("build resolver client: %w", err)
	}
	return client, nil
}
