package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskcal.db"
	DefaultDiskvDir       = "documents"
	DefaultLogName        = "taskcal.log"

	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
	BackendMemory = "memory"
)

var (
	ErrUnknownBackend = errors.New("config: unknown backend")
	ErrUnknownZone    = errors.New("config: unknown timezone")
)

type Keymap struct {
	Quit      string `toml:"quit"`
	Help      string `toml:"help"`
	Palette   string `toml:"palette"`
	NewTask   string `toml:"new_task"`
	Open      string `toml:"open"`
	Detail    string `toml:"detail"`
	Toggle    string `toml:"toggle"`
	Delete    string `toml:"delete"`
	Filter    string `toml:"filter"`
	Sidebar   string `toml:"sidebar"`
	Focus     string `toml:"focus"`
	PrevMonth string `toml:"prev_month"`
	NextMonth string `toml:"next_month"`
	Today     string `toml:"today"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Left      string `toml:"left"`
	Right     string `toml:"right"`
}

type Config struct {
	Backend             string `toml:"backend"`
	DBPath              string `toml:"db_path"`
	DiskvPath           string `toml:"diskv_path"`
	Timezone            string `toml:"timezone"`
	DefaultFilter       string `toml:"default_filter"`
	LogLevel            string `toml:"log_level"`
	LogFile             string `toml:"log_file"`
	StoreTimeoutSeconds int    `toml:"store_timeout_seconds"`
	Keys                Keymap `toml:"keys"`
}

// ResolvePath returns $TASKCAL_CONFIG when set, otherwise
// <UserConfigDir>/taskcal/config.toml.
func ResolvePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("TASKCAL_CONFIG")); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate config dir: %w", err)
	}
	return filepath.Join(dir, "taskcal", DefaultConfigFileName), nil
}

// LoadOrCreate reads the TOML file at path, writing the defaults there first
// when it does not exist. Relative data paths resolve against the file's
// directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.DiskvPath == "" {
		cfg.DiskvPath = DefaultDiskvDir
	}
	if cfg.StoreTimeoutSeconds <= 0 {
		cfg.StoreTimeoutSeconds = Default().StoreTimeoutSeconds
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// FromEnv applies TASKCAL_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TASKCAL_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKCAL_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TASKCAL_DISKV_PATH"); ok {
		cfg.DiskvPath = v
	}
	if v, ok := getEnvString("TASKCAL_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvString("TASKCAL_DEFAULT_FILTER"); ok {
		cfg.DefaultFilter = v
	}
	if v, ok := getEnvString("TASKCAL_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TASKCAL_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("TASKCAL_STORE_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.StoreTimeoutSeconds = v
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendDiskv, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	_, err := c.Location()
	return err
}

// Location resolves Timezone; empty means the process-local zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return loc, nil
}

func (c Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

func (c Config) resolve(dir string) Config {
	out := c
	out.DBPath = resolveAgainst(dir, c.DBPath)
	out.DiskvPath = resolveAgainst(dir, c.DiskvPath)
	if c.LogFile != "" {
		out.LogFile = resolveAgainst(dir, c.LogFile)
	}
	return out
}

func resolveAgainst(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Backend:             BackendSQLite,
		DBPath:              DefaultDBName,
		DiskvPath:           DefaultDiskvDir,
		DefaultFilter:       "all",
		LogLevel:            "info",
		LogFile:             DefaultLogName,
		StoreTimeoutSeconds: 5,
		Keys: Keymap{
			Quit:      "q",
			Help:      "?",
			Palette:   ":",
			NewTask:   "n",
			Open:      "enter",
			Detail:    "v",
			Toggle:    "x",
			Delete:    "d",
			Filter:    "f",
			Sidebar:   "s",
			Focus:     "tab",
			PrevMonth: "[",
			NextMonth: "]",
			Today:     "t",
			Up:        "k",
			Down:      "j",
			Left:      "h",
			Right:     "l",
		},
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
