package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "MATHSTICKS_"

// Config controls runtime behavior for the TUI app.
type Config struct {
	DataDir  string `toml:"data_dir" env:"DATA_DIR"`
	LogPath  string `toml:"log" env:"LOG"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	// Seed fixes the first number of every run; negative draws one at random.
	Seed          int            `toml:"seed" env:"SEED"`
	Strict        bool           `toml:"strict" env:"STRICT"`
	ASCIIOnly     bool           `toml:"ascii" env:"ASCII"`
	Dev           bool           `toml:"dev" env:"DEV"`
	DevHTTP       string         `toml:"dev_http" env:"DEV_HTTP"`
	DemoScenario  string         `toml:"demo" env:"DEMO"`
	ResetTutorial bool           `toml:"-"`
	ConfigPath    string         `toml:"-"`
	Gameplay      GameplayConfig `toml:"gameplay" envPrefix:"GAMEPLAY_"`
	UI            UIConfig       `toml:"ui" envPrefix:"UI_"`
}

type GameplayConfig struct {
	// How long a result stays on screen before input is accepted again.
	SuccessDelayMS int `toml:"success_delay_ms" env:"SUCCESS_DELAY_MS"`
	FailureDelayMS int `toml:"failure_delay_ms" env:"FAILURE_DELAY_MS"`
}

type UIConfig struct {
	StyleVariant string `toml:"style" env:"STYLE"`
	MotionLevel  string `toml:"motion" env:"MOTION"`
	MouseScope   string `toml:"mouse" env:"MOUSE"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Seed:     -1,
		DevHTTP:  "127.0.0.1:17321",
		Gameplay: GameplayConfig{
			SuccessDelayMS: 1200,
			FailureDelayMS: 600,
		},
		UI: UIConfig{
			StyleVariant: "modern_arcade",
			MotionLevel:  "full",
			MouseScope:   "scoped",
		},
	}
}

// LoadConfig layers defaults, the TOML file at path and MATHSTICKS_*
// variables. An empty path falls back to the user config dir and is
// skipped when that file does not exist. environ replaces the process
// environment when non-nil.
func LoadConfig(path string, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
			cfg.ConfigPath = path
		} else if explicit {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mathsticks", "config.toml")
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Gameplay.SuccessDelayMS <= 0 {
		c.Gameplay.SuccessDelayMS = 1200
	}
	if c.Gameplay.FailureDelayMS <= 0 {
		c.Gameplay.FailureDelayMS = 600
	}
	switch c.UI.StyleVariant {
	case "", "modern_arcade", "cozy_clean", "retro_terminal":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "modern_arcade"
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}
	switch c.UI.MouseScope {
	case "", "off", "scoped", "full":
	default:
		return fmt.Errorf("invalid ui mouse scope %q", c.UI.MouseScope)
	}
	if c.UI.MouseScope == "" {
		c.UI.MouseScope = "scoped"
	}
	if c.Dev && strings.TrimSpace(c.DevHTTP) == "" {
		return errors.New("dev mode needs a dev http address")
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "mathsticks")
	}

	return nil
}

// SeedPtr is the fixed seed, or nil for a random one.
func (c Config) SeedPtr() *int {
	if c.Seed < 0 {
		return nil
	}
	seed := c.Seed
	return &seed
}

// StorePath is the SQLite file. Dev mode keeps its own file so scripted
// demos never touch real records.
func (c Config) StorePath() string {
	if c.Dev {
		return filepath.Join(c.DataDir, "state-dev.db")
	}
	return filepath.Join(c.DataDir, "state.db")
}
