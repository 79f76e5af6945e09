package config

const (
	defaultDataDir     = "~/.local/share/biobridge/data"
	defaultLogDir      = "~/.local/share/biobridge/logs"
	defaultCatalogPath = "~/.local/share/biobridge/catalog.db"
	defaultExportDir   = "~/.local/share/biobridge/exports"

	defaultResolverBaseURL        = "https://rest.uniprot.org"
	defaultResolverBatchSize      = 100
	defaultResolverTimeoutSeconds = 30

	defaultFuzzyThreshold       = 80.0
	defaultCompositeHandling    = "match_whole"
	defaultCompositeDelimiter   = "_"
	defaultPartialMatchHandling = "reject"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
			ExportDir:   defaultExportDir,
		},
		Resolver: Resolver{
			Enabled:        true,
			BaseURL:        defaultResolverBaseURL,
			BatchSize:      defaultResolverBatchSize,
			TimeoutSeconds: defaultResolverTimeoutSeconds,
		},
		Matching: Matching{
			FuzzyThreshold:       defaultFuzzyThreshold,
			CompositeHandling:    defaultCompositeHandling,
			CompositeDelimiter:   defaultCompositeDelimiter,
			PartialMatchHandling: defaultPartialMatchHandling,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
