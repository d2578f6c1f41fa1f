package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzerConfig holds the configuration for the flow log analyzer pipeline.
type AnalyzerConfig struct {
	LookupTableFile   string `yaml:"lookup_table_file"`
	LogFilePrefix     string `yaml:"log_file_prefix"`
	OutputFilePrefix  string `yaml:"output_file_prefix"`
	NumWorkers        int    `yaml:"num_workers"`
	SizeOfLineChannel int    `yaml:"size_of_line_channel"`
	LogSkippedLines   bool   `yaml:"log_skipped_lines"`
}

// LoggingConfig controls process log output.
type LoggingConfig struct {
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// ClickHouseConfig holds connection details for the optional export sink.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WritersConfig lists the report sinks beyond the canonical CSV report.
type WritersConfig struct {
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// NATSConfig holds settings for the run-summary notifier.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// NotifierConfig groups the available notifiers.
type NotifierConfig struct {
	NATS NATSConfig `yaml:"nats"`
}

// APIConfig holds settings for the report query API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Writers  WritersConfig  `yaml:"writers"`
	Notifier NotifierConfig `yaml:"notifier"`
	API      APIConfig      `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Analyzer.NumWorkers == 0 {
		c.Analyzer.NumWorkers = 1
	}
	if c.Analyzer.SizeOfLineChannel == 0 {
		c.Analyzer.SizeOfLineChannel = 1024
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
	if c.Notifier.NATS.Subject == "" {
		c.Notifier.NATS.Subject = "logflow.reports"
	}
}
