package config

const (
	defaultDataDir     = "~/.local/share/wfc"
	defaultArticlesDir = "~/.local/share/wfc/articles"
	defaultBatchDir    = "~/.local/share/wfc/batches"
	defaultLogDir      = "~/.local/share/wfc/logs"

	defaultWikipediaAPIURL   = "https://en.wikipedia.org/w/api.php"
	defaultWikidataAPIURL    = "https://www.wikidata.org/w/api.php"
	defaultUserAgent         = "WikidataFootballCleanup/1.0 (https://github.com/asherwoodbury/wikidata-football-cleanup)"
	defaultRequestTimeout    = 30
	defaultRequestDelay      = 1.0
	defaultMaxRetries        = 3
	defaultSearchResultLimit = 3
	defaultMinArticleLength  = 100

	defaultFetchWorkers = 4

	defaultExtractionBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultExtractionModel   = "anthropic/claude-sonnet-4"
	defaultExtractionTimeout = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			ArticlesDir: defaultArticlesDir,
			BatchDir:    defaultBatchDir,
			LogDir:      defaultLogDir,
		},
		Wikipedia: Wikipedia{
			APIURL:            defaultWikipediaAPIURL,
			UserAgent:         defaultUserAgent,
			RequestTimeout:    defaultRequestTimeout,
			RequestDelay:      defaultRequestDelay,
			MaxRetries:        defaultMaxRetries,
			SearchResultLimit: defaultSearchResultLimit,
			MinArticleLength:  defaultMinArticleLength,
		},
		Wikidata: Wikidata{
			APIURL: defaultWikidataAPIURL,
		},
		Fetch: Fetch{
			Workers: defaultFetchWorkers,
		},
		Extraction: Extraction{
			BaseURL:        defaultExtractionBaseURL,
			Model:          defaultExtractionModel,
			TimeoutSeconds: defaultExtractionTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
