package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		Data: DataConfig{},
		Display: DisplayConfig{
			Title:      "Newsletter Cadiem",
			BrandURL:   "https://github.com/veraivan",
			BrandLabel: "@veraivan",
			Timezone:   "UTC",
		},
		Theme: ThemeConfig{
			StorageKey: "ui-mode",
		},
		Storage: StorageConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "./data/newsletter",
			},
			Cookie: CookieConfig{
				MaxAgeDays: 365,
			},
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/newsletter.log",
			MaxSizeMB:  1,
			MaxBackups: 5,
		},
	}
}
