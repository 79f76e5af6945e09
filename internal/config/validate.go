package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	if !c.Resolver.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.Resolver.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("resolver.base_url %q is not an absolute URL", c.Resolver.BaseURL)
	}
	if c.Resolver.BatchSize <= 0 {
		return errors.New("resolver.batch_size must be positive")
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		return errors.New("resolver.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 100 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 100")
	}
	if c.Matching.MinConfidence < 0 || c.Matching.MinConfidence > 1 {
		return errors.New("matching.min_confidence must be between 0 and 1")
	}
	switch c.Matching.CompositeHandling {
	case "match_whole", "split_and_match", "both":
	default:
		return fmt.Errorf("matching.composite_handling %q is not one of match_whole, split_and_match, both", c.Matching.CompositeHandling)
	}
	switch c.Matching.PartialMatchHandling {
	case "best_match", "reject", "warn":
	default:
		return fmt.Errorf("matching.partial_match_handling %q is not one of best_match, reject, warn", c.Matching.PartialMatchHandling)
	}
	return nil
}
