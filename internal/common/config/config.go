// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Transport TransportConfig `mapstructure:"transport"`
	Sheets    SheetsConfig    `mapstructure:"sheets"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Server    ServerConfig    `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TransportConfig controls the outbound HTTP client shared by REST backends.
type TransportConfig struct {
	Timeout          int    `mapstructure:"timeout"` // milliseconds
	MaxResponseBytes int64  `mapstructure:"max_response_bytes"`
	UserAgent        string `mapstructure:"user_agent"`
}

// --- Backend Sections ---

type SheetsConfig struct {
	SheetsBaseURL string `mapstructure:"sheets_base_url"`
	DriveBaseURL  string `mapstructure:"drive_base_url"`
	AccessToken   string `mapstructure:"access_token"`
}

type MongoConfig struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // milliseconds
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}
