// Package config loads, validates and locks glossa service
// configuration. Configuration lives in a single config.yaml, either
// passed directly or discovered via the standard directory chain.
package config

// Config is the root of the glossa configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Engine  EngineConfig  `yaml:"engine"`
	History HistoryConfig `yaml:"history"`
	API     APIConfig     `yaml:"api"`
	Events  EventsConfig  `yaml:"events"`

	// Dir is the directory the configuration was loaded from.
	// Relative paths inside the file resolve against it.
	Dir string `yaml:"-"`
}

// ServiceConfig holds process-wide settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// EngineConfig tunes the compilation engine.
type EngineConfig struct {
	// DefaultLanguage overrides the domain's first profile as the
	// language assumed when a request does not name one.
	DefaultLanguage string `yaml:"default_language,omitempty"`

	// CacheCapacity bounds the compile result cache.
	CacheCapacity int `yaml:"cache_capacity"`

	// MinConfidence is the translation acceptance threshold applied
	// when a request does not carry its own. Zero accepts everything.
	MinConfidence float64 `yaml:"min_confidence"`

	// ProfileDir optionally points at a directory of YAML language
	// packs layered over the domain's built-in profiles.
	ProfileDir string `yaml:"profile_dir,omitempty"`
}

// HistoryConfig controls the SQLite compile history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`

	// Retention is the number of most recent records kept by purge.
	// Zero disables purging.
	Retention int `yaml:"retention"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Enabled bool          `yaml:"enabled"`
	Listen  string        `yaml:"listen"`
	Auth    APIAuthConfig `yaml:"auth"`
}

// APIAuthConfig holds bearer credentials for the HTTP API. APIKey
// grants every scope; Tokens carry their own scope lists. With
// neither set the API serves unauthenticated.
type APIAuthConfig struct {
	APIKey string     `yaml:"api_key,omitempty"`
	Tokens []APIToken `yaml:"tokens,omitempty"`
}

// APIToken is a scoped bearer token.
type APIToken struct {
	Token  string   `yaml:"token"`
	Scopes []string `yaml:"scopes"`
}

// EventsConfig tunes the in-process event hub.
type EventsConfig struct {
	// Buffer is the number of recent events retained for replay.
	Buffer int `yaml:"buffer"`
}

// Defaults returns the configuration used where the file is silent.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "glossa",
			LogLevel:  "info",
			LogFormat: "text",
		},
		Engine: EngineConfig{
			CacheCapacity: 256,
		},
		API: APIConfig{
			Listen: "127.0.0.1:8080",
		},
		Events: EventsConfig{
			Buffer: 256,
		},
	}
}
