package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFileName = "config.yml"
	defaultConfigDirName  = ".config/taskboard"
	defaultDataDirName    = ".local/share/taskboard"
	defaultSessionFile    = "session.yml"
	defaultLogFile        = "taskboard.log"

	envPrefix = "TASKBOARD_"
)

// Storage backends
const (
	BackendFilesystem = "filesystem"
	BackendMongo      = "mongo"
	BackendRedis      = "redis"
	BackendMemory     = "memory"
	BackendDaemon     = "daemon"
)

// Config holds application configuration
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Daemon      DaemonConfig      `yaml:"daemon"`
	Session     SessionConfig     `yaml:"session"`
	Sync        SyncConfig        `yaml:"sync"`
	Logging     LoggingConfig     `yaml:"logging"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
}

// StorageConfig selects and configures the document store
type StorageConfig struct {
	Backend  string      `yaml:"backend"`
	DataPath string      `yaml:"data_path"`
	Mongo    MongoConfig `yaml:"mongo"`
	Redis    RedisConfig `yaml:"redis"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Collection     string `yaml:"collection"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	URL       string `yaml:"url"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DaemonConfig holds daemon-related configuration
type DaemonConfig struct {
	SocketDir  string `yaml:"socket_dir"`
	SocketName string `yaml:"socket_name"`
	// Backend is the store the daemon serves; it cannot be "daemon"
	Backend string `yaml:"backend"`
	Cache   bool   `yaml:"cache"`
	Watch   bool   `yaml:"watch"`
}

// SessionConfig locates the signed-in identity
type SessionConfig struct {
	File string `yaml:"file"`
}

// SyncConfig tunes the synchronization service
type SyncConfig struct {
	FetchFailurePolicy    string `yaml:"fetch_failure_policy"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// LoggingConfig configures slog output and file rotation
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TUIConfig holds TUI styling configuration
type TUIConfig struct {
	Styles StylesConfig `yaml:"styles"`
}

// StylesConfig holds color and styling configuration
type StylesConfig struct {
	Column        ColumnStyle    `yaml:"column"`
	FocusedColumn ColumnStyle    `yaml:"focused_column"`
	ColumnTitle   TextStyle      `yaml:"column_title"`
	Task          TextStyle      `yaml:"task"`
	SelectedTask  TextStyle      `yaml:"selected_task"`
	GrabbedTask   TextStyle      `yaml:"grabbed_task"`
	Description   TextStyle      `yaml:"description"`
	Tab           TextStyle      `yaml:"tab"`
	ActiveTab     TextStyle      `yaml:"active_tab"`
	Help          TextStyle      `yaml:"help"`
	Status        TextStyle      `yaml:"status"`
	Error         TextStyle      `yaml:"error"`
	TableHeader   TextStyle      `yaml:"table_header"`
	Today         TextStyle      `yaml:"today"`
	OutsideMonth  TextStyle      `yaml:"outside_month"`
	Priority      PriorityColors `yaml:"priority"`
}

// ColumnStyle represents column styling
type ColumnStyle struct {
	PaddingVertical   int    `yaml:"padding_vertical"`
	PaddingHorizontal int    `yaml:"padding_horizontal"`
	BorderStyle       string `yaml:"border_style"`
	BorderColor       string `yaml:"border_color"`
}

// TextStyle represents text styling
type TextStyle struct {
	Foreground        string `yaml:"foreground,omitempty"`
	Background        string `yaml:"background,omitempty"`
	Bold              bool   `yaml:"bold,omitempty"`
	Italic            bool   `yaml:"italic,omitempty"`
	PaddingVertical   int    `yaml:"padding_vertical,omitempty"`
	PaddingHorizontal int    `yaml:"padding_horizontal,omitempty"`
	Align             string `yaml:"align,omitempty"`
}

// PriorityColors holds colors for different priority levels
type PriorityColors struct {
	High    string `yaml:"high"`
	Medium  string `yaml:"medium"`
	Low     string `yaml:"low"`
	Default string `yaml:"default"`
}

// KeybindingsConfig holds keybinding configuration
type KeybindingsConfig struct {
	Up             []string `yaml:"up"`
	Down           []string `yaml:"down"`
	Left           []string `yaml:"left"`
	Right          []string `yaml:"right"`
	Grab           []string `yaml:"grab"`
	Drop           []string `yaml:"drop"`
	Cancel         []string `yaml:"cancel"`
	Advance        []string `yaml:"advance"`
	Add            []string `yaml:"add"`
	Delete         []string `yaml:"delete"`
	Search         []string `yaml:"search"`
	Refresh        []string `yaml:"refresh"`
	NextTab        []string `yaml:"next_tab"`
	Sort           []string `yaml:"sort"`
	Order          []string `yaml:"order"`
	StatusFilter   []string `yaml:"status_filter"`
	PriorityFilter []string `yaml:"priority_filter"`
	PrevMonth      []string `yaml:"prev_month"`
	NextMonth      []string `yaml:"next_month"`
	Quit           []string `yaml:"quit"`
}

// SocketPath returns the daemon socket location
func (c *Config) SocketPath() string {
	return filepath.Join(c.Daemon.SocketDir, c.Daemon.SocketName)
}

// Loader handles loading and saving configuration
type Loader struct {
	configPath string
	homeDir    string
}

// NewLoader creates a loader for ~/.config/taskboard/config.yml
func NewLoader() (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return &Loader{
		configPath: filepath.Join(homeDir, defaultConfigDirName, defaultConfigFileName),
		homeDir:    homeDir,
	}, nil
}

// NewLoaderFrom creates a loader for an explicit config file
func NewLoaderFrom(path string) (*Loader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return &Loader{
		configPath: path,
		homeDir:    homeDir,
	}, nil
}

// Load loads the configuration, creating defaults if it doesn't exist.
// Values from the environment (and a .env file) override the file.
func (l *Loader) Load() (*Config, error) {
	var config *Config

	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		config, err = l.createDefaultConfig()
		if err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		config = DefaultConfig(l.homeDir)
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save persists the configuration to disk
func (l *Loader) Save(config *Config) error {
	configDir := filepath.Dir(l.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func (l *Loader) GetConfigPath() string {
	return l.configPath
}

// createDefaultConfig creates and saves a default configuration
func (l *Loader) createDefaultConfig() (*Config, error) {
	config := DefaultConfig(l.homeDir)

	if err := l.Save(config); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(config.Storage.DataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return config, nil
}

// Validate rejects configurations the application cannot start with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFilesystem, BackendMongo, BackendRedis, BackendMemory, BackendDaemon:
	default:
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}

	switch c.Daemon.Backend {
	case BackendFilesystem, BackendMongo, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid daemon backend %q", c.Daemon.Backend)
	}

	return nil
}

// ApplyEnv overrides config values with TASKBOARD_* environment variables
func ApplyEnv(c *Config) error {
	strs := map[string]*string{
		"BACKEND":              &c.Storage.Backend,
		"DATA_PATH":            &c.Storage.DataPath,
		"MONGO_URI":            &c.Storage.Mongo.URI,
		"MONGO_DATABASE":       &c.Storage.Mongo.Database,
		"REDIS_URL":            &c.Storage.Redis.URL,
		"REDIS_PASSWORD":       &c.Storage.Redis.Password,
		"DAEMON_BACKEND":       &c.Daemon.Backend,
		"SOCKET_DIR":           &c.Daemon.SocketDir,
		"SESSION_FILE":         &c.Session.File,
		"FETCH_FAILURE_POLICY": &c.Sync.FetchFailurePolicy,
		"LOG_LEVEL":            &c.Logging.Level,
		"LOG_FORMAT":           &c.Logging.Format,
		"LOG_OUTPUT":           &c.Logging.Output,
		"LOG_FILE":             &c.Logging.File,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		"REDIS_DB":                &c.Storage.Redis.DB,
		"REQUEST_TIMEOUT_SECONDS": &c.Sync.RequestTimeoutSeconds,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}

	return nil
}

// DefaultConfig returns the configuration written on first run
func DefaultConfig(homeDir string) *Config {
	dataDir := filepath.Join(homeDir, defaultDataDirName)

	return &Config{
		Storage: StorageConfig{
			Backend:  BackendFilesystem,
			DataPath: dataDir,
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "taskboard",
				Collection:     "tasks",
				TimeoutSeconds: 10,
			},
			Redis: RedisConfig{
				URL:       "redis://localhost:6379/0",
				KeyPrefix: "taskboard",
			},
		},
		Daemon: DaemonConfig{
			SocketDir:  dataDir,
			SocketName: "taskboardd.sock",
			Backend:    BackendFilesystem,
			Cache:      true,
			Watch:      true,
		},
		Session: SessionConfig{
			File: filepath.Join(dataDir, defaultSessionFile),
		},
		Sync: SyncConfig{
			FetchFailurePolicy:    "keep-last-good",
			RequestTimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			File:       filepath.Join(dataDir, "logs", defaultLogFile),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		TUI: TUIConfig{
			Styles: StylesConfig{
				Column: ColumnStyle{
					PaddingVertical:   0,
					PaddingHorizontal: 1,
					BorderStyle:       "rounded",
					BorderColor:       "240",
				},
				FocusedColumn: ColumnStyle{
					PaddingVertical:   0,
					PaddingHorizontal: 1,
					BorderStyle:       "rounded",
					BorderColor:       "62",
				},
				ColumnTitle: TextStyle{
					Foreground: "99",
					Bold:       true,
					Align:      "center",
				},
				Task: TextStyle{
					Foreground:        "252",
					PaddingHorizontal: 1,
				},
				SelectedTask: TextStyle{
					Foreground:        "230",
					Background:        "62",
					Bold:              true,
					PaddingHorizontal: 1,
				},
				GrabbedTask: TextStyle{
					Foreground:        "16",
					Background:        "#FFE66D",
					Bold:              true,
					PaddingHorizontal: 1,
				},
				Description: TextStyle{
					Foreground:        "#888888",
					Italic:            true,
					PaddingHorizontal: 2,
				},
				Tab: TextStyle{
					Foreground:        "245",
					PaddingHorizontal: 2,
				},
				ActiveTab: TextStyle{
					Foreground:        "230",
					Background:        "62",
					Bold:              true,
					PaddingHorizontal: 2,
				},
				Help: TextStyle{
					Foreground:        "241",
					PaddingVertical:   1,
					PaddingHorizontal: 2,
				},
				Status: TextStyle{
					Foreground:        "#95E1D3",
					PaddingHorizontal: 2,
				},
				Error: TextStyle{
					Foreground:        "#FF6B6B",
					Bold:              true,
					PaddingHorizontal: 2,
				},
				TableHeader: TextStyle{
					Foreground: "99",
					Bold:       true,
				},
				Today: TextStyle{
					Foreground: "230",
					Background: "62",
					Bold:       true,
				},
				OutsideMonth: TextStyle{
					Foreground: "238",
				},
				Priority: PriorityColors{
					High:    "#FF6B6B",
					Medium:  "#FFE66D",
					Low:     "#95E1D3",
					Default: "#999999",
				},
			},
		},
		Keybindings: KeybindingsConfig{
			Up:             []string{"up", "k"},
			Down:           []string{"down", "j"},
			Left:           []string{"left", "h"},
			Right:          []string{"right", "l"},
			Grab:           []string{" "},
			Drop:           []string{"enter"},
			Cancel:         []string{"esc"},
			Advance:        []string{"m"},
			Add:            []string{"a"},
			Delete:         []string{"d"},
			Search:         []string{"/"},
			Refresh:        []string{"r"},
			NextTab:        []string{"tab"},
			Sort:           []string{"s"},
			Order:          []string{"o"},
			StatusFilter:   []string{"f"},
			PriorityFilter: []string{"p"},
			PrevMonth:      []string{"["},
			NextMonth:      []string{"]"},
			Quit:           []string{"q", "ctrl+c"},
		},
	}
}
