package common

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// TestURLEnv points the suite at an already running server instead of a
// container.
const TestURLEnv = "NEWSLETTER_TEST_URL"

type TestConfig struct {
	Results struct {
		Dir string `toml:"dir"`
	} `toml:"results"`
	Server struct {
		URL string `toml:"url"`
	} `toml:"server"`
	Browser struct {
		Headless    bool `toml:"headless"`
		TimeoutSecs int  `toml:"timeout_seconds"`
	} `toml:"browser"`
}

var (
	globalConfig     *TestConfig
	globalConfigOnce sync.Once
	resultsDir       string
	resultsDirOnce   sync.Once
)

func LoadTestConfig() *TestConfig {
	globalConfigOnce.Do(func() {
		globalConfig = &TestConfig{}
		globalConfig.Results.Dir = "tests/results"
		globalConfig.Server.URL = "http://localhost:4241"
		globalConfig.Browser.Headless = true
		globalConfig.Browser.TimeoutSecs = 30

		configPaths := []string{
			"tests/ui/test_config.toml",
			"test_config.toml",
		}

		if wd, err := os.Getwd(); err == nil {
			if filepath.Base(wd) == "ui" {
				configPaths = append([]string{"test_config.toml"}, configPaths...)
			}
		}

		for _, path := range configPaths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := toml.Unmarshal(data, globalConfig); err == nil {
				return
			}
		}
	})
	return globalConfig
}

// BrowserConfigFromTest returns browser settings from the test config.
func BrowserConfigFromTest() *BrowserConfig {
	cfg := LoadTestConfig()
	bc := DefaultBrowserConfig()
	bc.Headless = cfg.Browser.Headless
	if cfg.Browser.TimeoutSecs > 0 {
		bc.Timeout = time.Duration(cfg.Browser.TimeoutSecs) * time.Second
	}
	return bc
}

// FindProjectRoot walks up from the working directory to the directory
// holding go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

func InitResultsDir() string {
	resultsDirOnce.Do(func() {
		baseDir := LoadTestConfig().Results.Dir
		if !filepath.IsAbs(baseDir) {
			baseDir = filepath.Join(FindProjectRoot(), baseDir)
		}

		timestamp := time.Now().Format("2006-01-02-15-04-05")
		resultsDir = filepath.Join(baseDir, timestamp)

		if err := os.MkdirAll(resultsDir, 0755); err != nil {
			panic("failed to create results dir: " + err.Error())
		}
	})
	return resultsDir
}

func GetResultsDir() string {
	if dir := os.Getenv("NEWSLETTER_TEST_RESULTS_DIR"); dir != "" {
		if !filepath.IsAbs(dir) {
			if absDir, err := filepath.Abs(dir); err == nil {
				return absDir
			}
		}
		return dir
	}
	return InitResultsDir()
}

func GetScreenshotDir(subdir string) string {
	dir := filepath.Join(GetResultsDir(), subdir)
	os.MkdirAll(dir, 0755)
	return dir
}

// GetTestURL returns NEWSLETTER_TEST_URL, or the configured server URL.
func GetTestURL() string {
	if url := os.Getenv(TestURLEnv); url != "" {
		return url
	}
	return LoadTestConfig().Server.URL
}
