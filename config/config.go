package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerPort string `yaml:"server.port"`

	// Cron schedule for full collection runs
	CronSchedule string `yaml:"cron.schedule"`

	// Database configuration
	DatabaseURL string `yaml:"database.url"`

	// Collector configuration
	YtDlpPath       string        `yaml:"collector.yt_dlp_path"`
	ResultLimit     int           `yaml:"collector.result_limit"`
	MaxAgeDays      int           `yaml:"collector.max_age_days"`
	RecencyWindow   string        `yaml:"collector.recency_window"`
	RequestDelay    time.Duration `yaml:"-"`
	RequestDelayStr string        `yaml:"collector.request_delay"`
	ParserMaxBuffer int           `yaml:"collector.parser_max_buffer"`

	// Notification configuration
	WebhookURL string `yaml:"notify.webhook_url"`

	// Logging configuration
	LogDirectory  string `yaml:"logging.dir"`
	LogOutputFile string `yaml:"logging.output_file"`
	LogErrorFile  string `yaml:"logging.error_file"`

	// Bootstrap keyword list
	BootstrapKeywords []KeywordBootstrap `yaml:"keywords"`
}

// KeywordBootstrap defines a tracked keyword seeded from config
type KeywordBootstrap struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	IsActive *bool  `yaml:"is_active,omitempty"`
}

// configFile represents the YAML structure
type configFile struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Cron struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"cron"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Collector struct {
		YtDlpPath       string `yaml:"yt_dlp_path"`
		ResultLimit     int    `yaml:"result_limit"`
		MaxAgeDays      int    `yaml:"max_age_days"`
		RecencyWindow   string `yaml:"recency_window"`
		RequestDelay    string `yaml:"request_delay"`
		ParserMaxBuffer int    `yaml:"parser_max_buffer"`
	} `yaml:"collector"`
	Notify struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"notify"`
	Logging struct {
		Directory  string `yaml:"dir"`
		OutputFile string `yaml:"output_file"`
		ErrorFile  string `yaml:"error_file"`
	} `yaml:"logging"`
	Keywords []KeywordBootstrap `yaml:"keywords"`
}

// Manager handles configuration loading and saving
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
}

// NewManager creates a new configuration manager
func NewManager(configPath string) *Manager {
	if configPath == "" {
		configPath = "config.yaml"
	}
	return &Manager{
		configPath: configPath,
	}
}

// Load reads configuration from YAML file
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		// If file doesn't exist, create default config
		if os.IsNotExist(err) {
			return m.createDefaultConfig()
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfgFile configFile
	if err := yaml.Unmarshal(data, &cfgFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := &Config{
		ServerPort:        cfgFile.Server.Port,
		CronSchedule:      cfgFile.Cron.Schedule,
		DatabaseURL:       cfgFile.Database.URL,
		YtDlpPath:         cfgFile.Collector.YtDlpPath,
		ResultLimit:       cfgFile.Collector.ResultLimit,
		MaxAgeDays:        cfgFile.Collector.MaxAgeDays,
		RecencyWindow:     cfgFile.Collector.RecencyWindow,
		RequestDelayStr:   cfgFile.Collector.RequestDelay,
		ParserMaxBuffer:   cfgFile.Collector.ParserMaxBuffer,
		WebhookURL:        cfgFile.Notify.WebhookURL,
		LogDirectory:      cfgFile.Logging.Directory,
		LogOutputFile:     cfgFile.Logging.OutputFile,
		LogErrorFile:      cfgFile.Logging.ErrorFile,
		BootstrapKeywords: cfgFile.Keywords,
	}

	applyDefaults(cfg)

	m.config = cfg
	return cfg, nil
}

// applyDefaults fills zero-valued fields with working defaults
func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 */6 * * *"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite3:./trends.db"
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 20
	}
	if cfg.RecencyWindow == "" && cfg.MaxAgeDays <= 0 {
		cfg.RecencyWindow = "week"
	}
	if cfg.ParserMaxBuffer <= 0 {
		cfg.ParserMaxBuffer = 1024 * 1024
	}
	if cfg.LogDirectory == "" {
		cfg.LogDirectory = "./logs"
	}
	if cfg.LogOutputFile == "" {
		cfg.LogOutputFile = "collector.log"
	}
	if cfg.LogErrorFile == "" {
		cfg.LogErrorFile = "collector.error.log"
	}

	if cfg.RequestDelayStr != "" {
		if d, err := time.ParseDuration(cfg.RequestDelayStr); err == nil {
			cfg.RequestDelay = d
		} else {
			cfg.RequestDelay = 2 * time.Second
		}
	} else {
		cfg.RequestDelay = 2 * time.Second
	}
}

// Save writes configuration to YAML file
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveUnlocked(cfg)
}

// saveUnlocked persists config assuming caller already holds the write lock.
func (m *Manager) saveUnlocked(cfg *Config) error {
	var cfgFile configFile
	cfgFile.Server.Port = cfg.ServerPort
	cfgFile.Cron.Schedule = cfg.CronSchedule
	cfgFile.Database.URL = cfg.DatabaseURL
	cfgFile.Collector.YtDlpPath = cfg.YtDlpPath
	cfgFile.Collector.ResultLimit = cfg.ResultLimit
	cfgFile.Collector.MaxAgeDays = cfg.MaxAgeDays
	cfgFile.Collector.RecencyWindow = cfg.RecencyWindow
	cfgFile.Collector.RequestDelay = cfg.RequestDelay.String()
	cfgFile.Collector.ParserMaxBuffer = cfg.ParserMaxBuffer
	cfgFile.Notify.WebhookURL = cfg.WebhookURL
	cfgFile.Logging.Directory = cfg.LogDirectory
	cfgFile.Logging.OutputFile = cfg.LogOutputFile
	cfgFile.Logging.ErrorFile = cfg.LogErrorFile
	cfgFile.Keywords = cfg.BootstrapKeywords

	data, err := yaml.Marshal(&cfgFile)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.config = cfg
	return nil
}

// Get returns the current configuration (thread-safe)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Reload reloads configuration from file
func (m *Manager) Reload() (*Config, error) {
	return m.Load()
}

// createDefaultConfig creates a default configuration file
func (m *Manager) createDefaultConfig() (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if err := m.saveUnlocked(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Global config manager instance
var globalManager *Manager

// Load loads configuration from YAML file (backward compatibility)
func Load() (*Config, error) {
	if globalManager == nil {
		configPath := "config.yaml"
		// Check if config/config.yaml exists, if so use it as default
		if _, err := os.Stat("config/config.yaml"); err == nil {
			configPath = "config/config.yaml"
		}
		globalManager = NewManager(configPath)
	}
	return globalManager.Load()
}

// GetManager returns the global config manager
func GetManager() *Manager {
	if globalManager == nil {
		configPath := "config.yaml"
		if _, err := os.Stat("config/config.yaml"); err == nil {
			configPath = "config/config.yaml"
		}
		globalManager = NewManager(configPath)
	}
	return globalManager
}
