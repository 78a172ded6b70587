package config

import "testing"

func validConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			PageTimeoutS:   60,
			InitialDelayMS: 3000,
		},
		Scroll: ScrollConfig{
			MaxIterations:   30,
			OffsetPX:        1000,
			SettleDelayMS:   1500,
			StagnationLimit: 5,
		},
		Filter: FilterConfig{
			HostSubstring:   "cdninstagram.com",
			ExcludedMarkers: []string{"s150x150", "s64x64", "s32x32"},
		},
		Profile: ProfileConfig{BaseURL: "https://www.threads.net"},
		Storage: StorageConfig{
			Driver:    "file",
			OutputDir: "data",
		},
		Observability: ObservabilityConfig{
			LogPath:  "logs/threadgram.log",
			LogLevel: "info",
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max_iterations", func(c *Config) { c.Scroll.MaxIterations = 0 }},
		{"zero stagnation_limit", func(c *Config) { c.Scroll.StagnationLimit = 0 }},
		{"negative offset", func(c *Config) { c.Scroll.OffsetPX = -1 }},
		{"empty host filter", func(c *Config) { c.Filter.HostSubstring = "" }},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "sqlite" }},
		{"file driver without output dir", func(c *Config) { c.Storage.OutputDir = "" }},
		{"mssql driver without dsn", func(c *Config) { c.Storage.Driver = "mssql" }},
		{"empty log path", func(c *Config) { c.Observability.LogPath = "" }},
	}

	for _, tt := range tests {
		cfg := validConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}
}

func TestProfileURL(t *testing.T) {
	tests := []struct {
		baseURL  string
		username string
		want     string
	}{
		{"https://www.threads.net", "someuser", "https://www.threads.net/@someuser"},
		{"https://www.threads.net/", "someuser", "https://www.threads.net/@someuser"},
	}

	for _, tt := range tests {
		cfg := validConfig()
		cfg.Profile.BaseURL = tt.baseURL
		if got := cfg.ProfileURL(tt.username); got != tt.want {
			t.Errorf("ProfileURL(%q) = %q, want %q", tt.username, got, tt.want)
		}
	}
}
