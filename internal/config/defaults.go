package config

const (
	defaultConfigPath            = "~/.config/meeplego/config.toml"
	projectConfigName            = "meeplego.toml"
	defaultDataDir               = "~/.local/share/meeplego"
	defaultLogDir                = "~/.local/share/meeplego/logs"
	defaultSQLiteName            = "meeplego.db"
	defaultRedisPrefix           = "meeplego:"
	defaultWorkers               = 8
	defaultRetryAttempts         = 3
	defaultRetryInitialBackoffMS = 200
	defaultRetryMaxBackoffMS     = 2000
	defaultMinYear               = 1970
	defaultMaxYear               = 2030
	defaultSource                = "scrape"
	defaultMinStemLength         = 4
	defaultPlaceholderSimilarity = 0.85
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			RedisPrefix: defaultRedisPrefix,
		},
		Pipeline: Pipeline{
			Workers:               defaultWorkers,
			RetryAttempts:         defaultRetryAttempts,
			RetryInitialBackoffMS: defaultRetryInitialBackoffMS,
			RetryMaxBackoffMS:     defaultRetryMaxBackoffMS,
			MinYear:               defaultMinYear,
			MaxYear:               defaultMaxYear,
			Source:                defaultSource,
		},
		Classifier: Classifier{
			MinStemLength: defaultMinStemLength,
		},
		Verify: Verify{
			DefaultSingleWinner:   true,
			PlaceholderSimilarity: defaultPlaceholderSimilarity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
