package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads configuration from path, which may name a config.yaml
// directly or a directory containing one. Environment references of
// the form ${VAR} are interpolated before parsing; unset variables are
// left as-is so validation can point at them. When the loaded
// configuration names a profile-pack directory, its checksum manifest
// is verified.
func Load(path string) (*Config, error) {
	absPath, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
	}
	cfg.Dir = filepath.Dir(absPath)

	applyDefaults(cfg)
	resolvePaths(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", absPath, err)
	}

	if cfg.Engine.ProfileDir != "" {
		if err := VerifyProfiles(cfg.Engine.ProfileDir); err != nil {
			return nil, fmt.Errorf("profile pack integrity: %w", err)
		}
	}

	return cfg, nil
}

// resolveConfigFile turns a file-or-directory path into the absolute
// config.yaml it names.
func resolveConfigFile(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("config file not found: %s", absPath)
	}
	if info.IsDir() {
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return "", fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}
	return absPath, nil
}

// ProfileDir reads just engine.profile_dir from the configuration at
// path, skipping validation and integrity verification so config lock
// can re-lock a pack directory the full loader would reject.
func ProfileDir(path string) (string, error) {
	absPath, err := resolveConfigFile(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}

	var doc struct {
		Engine struct {
			ProfileDir string `yaml:"profile_dir"`
		} `yaml:"engine"`
	}
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", absPath, err)
	}

	dir := doc.Engine.ProfileDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(absPath), dir)
	}
	return dir, nil
}

// Discover locates the configuration directory and loads it. The
// search order is $GLOSSA_CONFIG_DIR, ~/.config/glossa, /etc/glossa,
// then a config.yaml in the current directory.
func Discover() (*Config, error) {
	dir, err := DiscoverConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(dir)
}

// DiscoverConfigDir returns the first location in the search chain
// that holds a config.yaml. $GLOSSA_CONFIG_DIR wins unconditionally
// so a broken override surfaces as a load error instead of a silent
// fallback.
func DiscoverConfigDir() (string, error) {
	if dir := os.Getenv("GLOSSA_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", "glossa")
		if hasConfig(dir) {
			return dir, nil
		}
	}
	if hasConfig("/etc/glossa") {
		return "/etc/glossa", nil
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return ".", nil
	}
	return "", fmt.Errorf("no configuration found: set GLOSSA_CONFIG_DIR or create ~/.config/glossa/config.yaml")
}

func hasConfig(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	return err == nil
}

// interpolateEnv replaces ${VAR} references with environment values.
// Unset variables keep their literal form.
func interpolateEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Service.Name == "" {
		cfg.Service.Name = def.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = def.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = def.Service.LogFormat
	}
	if cfg.Engine.CacheCapacity == 0 {
		cfg.Engine.CacheCapacity = def.Engine.CacheCapacity
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = def.API.Listen
	}
	if cfg.Events.Buffer == 0 {
		cfg.Events.Buffer = def.Events.Buffer
	}
}

// resolvePaths anchors relative file references to the config dir so
// the service behaves the same regardless of working directory.
func resolvePaths(cfg *Config) {
	if cfg.Engine.ProfileDir != "" && !filepath.IsAbs(cfg.Engine.ProfileDir) {
		cfg.Engine.ProfileDir = filepath.Join(cfg.Dir, cfg.Engine.ProfileDir)
	}
	if cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(cfg.Dir, cfg.History.Path)
	}
}

func (c *Config) validate() error {
	switch c.Service.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("service.log_level: unknown level %q (want debug, info, warn or error)", c.Service.LogLevel)
	}

	switch c.Service.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("service.log_format: unknown format %q (want text or json)", c.Service.LogFormat)
	}

	if c.Engine.CacheCapacity < 0 {
		return fmt.Errorf("engine.cache_capacity: must not be negative, got %d", c.Engine.CacheCapacity)
	}
	if c.Engine.MinConfidence < 0 || c.Engine.MinConfidence > 1 {
		return fmt.Errorf("engine.min_confidence: must be between 0 and 1, got %g", c.Engine.MinConfidence)
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path: required when history.enabled is true")
	}
	if c.History.Retention < 0 {
		return fmt.Errorf("history.retention: must not be negative, got %d", c.History.Retention)
	}

	if c.API.Enabled {
		if name, unresolved := unresolvedEnvVar(c.API.Auth.APIKey); unresolved {
			return fmt.Errorf("api.auth.api_key: environment variable %s is not set", name)
		}
		for i, token := range c.API.Auth.Tokens {
			if token.Token == "" {
				return fmt.Errorf("api.auth.tokens[%d].token: must not be empty", i)
			}
			if name, unresolved := unresolvedEnvVar(token.Token); unresolved {
				return fmt.Errorf("api.auth.tokens[%d].token: environment variable %s is not set", i, name)
			}
			if len(token.Scopes) == 0 {
				return fmt.Errorf("api.auth.tokens[%d].scopes: at least one scope required", i)
			}
		}
	}

	if c.Events.Buffer <= 0 {
		return fmt.Errorf("events.buffer: must be positive, got %d", c.Events.Buffer)
	}

	return nil
}

func unresolvedEnvVar(value string) (string, bool) {
	m := envVarPattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return m[1], true
}
