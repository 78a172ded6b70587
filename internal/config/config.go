package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Browser       BrowserConfig       `yaml:"browser"`
	Scroll        ScrollConfig        `yaml:"scroll"`
	Filter        FilterConfig        `yaml:"filter"`
	Profile       ProfileConfig       `yaml:"profile"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type BrowserConfig struct {
	ChromePath     string `yaml:"chrome_path"`
	Headless       bool   `yaml:"headless"`
	PageTimeoutS   int    `yaml:"page_timeout_s"`
	InitialDelayMS int    `yaml:"initial_delay_ms"`
	UserAgent      string `yaml:"user_agent"`
}

type ScrollConfig struct {
	MaxIterations   int `yaml:"max_iterations"`
	OffsetPX        int `yaml:"offset_px"`
	SettleDelayMS   int `yaml:"settle_delay_ms"`
	StagnationLimit int `yaml:"stagnation_limit"`
}

type FilterConfig struct {
	HostSubstring   string   `yaml:"host_substring"`
	ExcludedMarkers []string `yaml:"excluded_markers"`
}

type ProfileConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Driver           string `yaml:"driver"`
	OutputDir        string `yaml:"output_dir"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type ObservabilityConfig struct {
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`
}

// Validation
func (c *Config) Validate() error {
	if c.Browser.PageTimeoutS <= 0 {
		return fmt.Errorf("browser.page_timeout_s must be > 0")
	}
	if c.Browser.InitialDelayMS < 0 {
		return fmt.Errorf("browser.initial_delay_ms must be >= 0")
	}
	if c.Scroll.MaxIterations <= 0 {
		return fmt.Errorf("scroll.max_iterations must be > 0")
	}
	if c.Scroll.OffsetPX <= 0 {
		return fmt.Errorf("scroll.offset_px must be > 0")
	}
	if c.Scroll.SettleDelayMS < 0 {
		return fmt.Errorf("scroll.settle_delay_ms must be >= 0")
	}
	if c.Scroll.StagnationLimit <= 0 {
		return fmt.Errorf("scroll.stagnation_limit must be > 0")
	}
	if c.Filter.HostSubstring == "" {
		return fmt.Errorf("filter.host_substring is required")
	}
	if c.Profile.BaseURL == "" {
		return fmt.Errorf("profile.base_url is required")
	}
	if c.Storage.Driver == "" || (c.Storage.Driver != "file" && c.Storage.Driver != "mssql") {
		return fmt.Errorf("storage.driver must be 'file' or 'mssql'")
	}
	if c.Storage.Driver == "file" && c.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir is required when driver is 'file'")
	}
	if c.Storage.Driver == "mssql" {
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required when driver is 'mssql'")
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0 when driver is 'mssql'")
		}
	}
	if c.Observability.LogPath == "" {
		return fmt.Errorf("observability.log_path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// ProfileURL строит URL страницы профиля для username (без ведущего @)
func (c *Config) ProfileURL(username string) string {
	return fmt.Sprintf("%s/@%s", strings.TrimSuffix(c.Profile.BaseURL, "/"), username)
}

// Getters
func (c *Config) GetPageTimeout() time.Duration {
	return time.Duration(c.Browser.PageTimeoutS) * time.Second
}

func (c *Config) GetInitialDelay() time.Duration {
	return time.Duration(c.Browser.InitialDelayMS) * time.Millisecond
}

func (c *Config) GetSettleDelay() time.Duration {
	return time.Duration(c.Scroll.SettleDelayMS) * time.Millisecond
}

func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.Storage.CommandTimeoutMS) * time.Millisecond
}
