package fieldcode

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.LogLevel != "info" {
		t.Errorf("DefaultConfig LogLevel = %s, want info", config.LogLevel)
	}

	if config.MatchTimeout != 500*time.Millisecond {
		t.Errorf("DefaultConfig MatchTimeout = %v, want 500ms", config.MatchTimeout)
	}

	if config.MaxNestingDepth != 32 {
		t.Errorf("DefaultConfig MaxNestingDepth = %d, want 32", config.MaxNestingDepth)
	}

	if config.CacheMaxSize != 256 {
		t.Errorf("DefaultConfig CacheMaxSize = %d, want 256", config.CacheMaxSize)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name: "log level",
			envVars: map[string]string{
				"FIELDCODE_LOG_LEVEL": "debug",
			},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %s, want debug", config.LogLevel)
				}
			},
		},
		{
			name: "match timeout",
			envVars: map[string]string{
				"FIELDCODE_MATCH_TIMEOUT": "250ms",
			},
			check: func(t *testing.T, config *Config) {
				if config.MatchTimeout != 250*time.Millisecond {
					t.Errorf("MatchTimeout = %v, want 250ms", config.MatchTimeout)
				}
			},
		},
		{
			name: "multiple environment variables",
			envVars: map[string]string{
				"FIELDCODE_MAX_NESTING_DEPTH": "8",
				"FIELDCODE_CACHE_MAX_SIZE":    "0",
			},
			check: func(t *testing.T, config *Config) {
				if config.MaxNestingDepth != 8 {
					t.Errorf("MaxNestingDepth = %d, want 8", config.MaxNestingDepth)
				}
				if config.CacheMaxSize != 0 {
					t.Errorf("CacheMaxSize = %d, want 0", config.CacheMaxSize)
				}
			},
		},
		{
			name: "invalid match timeout",
			envVars: map[string]string{
				"FIELDCODE_MATCH_TIMEOUT": "soon",
			},
			check: func(t *testing.T, config *Config) {
				if config.MatchTimeout != 500*time.Millisecond {
					t.Errorf("MatchTimeout = %v, want 500ms (default)", config.MatchTimeout)
				}
			},
		},
		{
			name: "invalid nesting depth",
			envVars: map[string]string{
				"FIELDCODE_MAX_NESTING_DEPTH": "deep",
			},
			check: func(t *testing.T, config *Config) {
				if config.MaxNestingDepth != 32 {
					t.Errorf("MaxNestingDepth = %d, want 32 (default)", config.MaxNestingDepth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	config := NewConfigWithDefaults(&Config{MaxNestingDepth: 4})

	if config.MaxNestingDepth != 4 {
		t.Errorf("MaxNestingDepth = %d, want 4", config.MaxNestingDepth)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info (default)", config.LogLevel)
	}
	if config.MatchTimeout != 500*time.Millisecond {
		t.Errorf("MatchTimeout = %v, want 500ms (default)", config.MatchTimeout)
	}
	if config.CacheMaxSize != 0 {
		t.Errorf("CacheMaxSize = %d, want 0 (explicitly disabled)", config.CacheMaxSize)
	}

	if got := NewConfigWithDefaults(nil); *got != *DefaultConfig() {
		t.Errorf("NewConfigWithDefaults(nil) = %+v, want defaults", got)
	}
}

func TestNewConfigWithDefaultsReplacesOutOfRange(t *testing.T) {
	config := NewConfigWithDefaults(&Config{MatchTimeout: -time.Second, MaxNestingDepth: -1, CacheMaxSize: -5})

	if config.MaxNestingDepth != 32 {
		t.Errorf("MaxNestingDepth = %d, want 32 (default)", config.MaxNestingDepth)
	}
	if config.MatchTimeout != 500*time.Millisecond {
		t.Errorf("MatchTimeout = %v, want 500ms (default)", config.MatchTimeout)
	}
	if config.CacheMaxSize != 0 {
		t.Errorf("CacheMaxSize = %d, want 0", config.CacheMaxSize)
	}
}

func TestParserIgnoresNegativeNestingDepthFromEnvironment(t *testing.T) {
	t.Setenv("FIELDCODE_MAX_NESTING_DEPTH", "-1")

	tree := parseTree(t, document(paragraph(complexField("MERGEFIELD customer", "x")...)))
	got, err := NewParserWithConfig(ConfigFromEnvironment()).ScanComplex(tree, tree.Root())
	if err != nil {
		t.Fatalf("ScanComplex() error = %v", err)
	}
	if len(got) != 1 || DataKey(got[0]) != "customer" {
		t.Errorf("ScanComplex() = %v, want MERGEFIELD customer", got)
	}
}

func TestSetGlobalConfigRebuildsDefaults(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	var runs []string
	for i := 0; i < 3; i++ {
		runs = append(runs, beginRun(), instrRun("MERGEFIELD level"))
	}
	for i := 0; i < 3; i++ {
		runs = append(runs, endRun())
	}
	tree := parseTree(t, document(paragraph(runs...)))

	if _, err := ScanComplex(tree, tree.Root()); err != nil {
		t.Fatalf("ScanComplex() error = %v", err)
	}

	config := DefaultConfig()
	config.MaxNestingDepth = 1
	config.CacheMaxSize = 0
	SetGlobalConfig(config)

	if _, err := ScanComplex(tree, tree.Root()); !IsNestingDepthError(err) {
		t.Errorf("expected NestingDepthError after SetGlobalConfig, got %v", err)
	}
	if _, err := Classify("MERGEFIELD a"); err != nil {
		t.Fatal(err)
	}
	if n := getDefaultParser().classifier.cache.Len(); n != 0 {
		t.Errorf("default classifier cached %d entries, want caching disabled", n)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "off level", modify: func(c *Config) { c.LogLevel = "off" }},
		{name: "unknown level", modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.MatchTimeout = 0 }, wantErr: true},
		{name: "zero depth", modify: func(c *Config) { c.MaxNestingDepth = 0 }, wantErr: true},
		{name: "negative cache", modify: func(c *Config) { c.CacheMaxSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fieldcode.yaml")
	content := "log_level: warn\nmatch_timeout: 100ms\nmax_nesting_depth: 4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	base := DefaultConfig()
	base.CacheMaxSize = 10
	config, err := LoadConfigFile(path, base)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	want := Config{LogLevel: "warn", MatchTimeout: 100 * time.Millisecond, MaxNestingDepth: 4, CacheMaxSize: 10}
	if *config != want {
		t.Errorf("LoadConfigFile() = %+v, want %+v", *config, want)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"), nil); !IsDocumentError(err) {
		t.Errorf("expected DocumentError for missing file, got %v", err)
	}

	malformed := filepath.Join(dir, "malformed.yaml")
	if err := os.WriteFile(malformed, []byte("log_level: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(malformed, nil); !IsDocumentError(err) {
		t.Errorf("expected DocumentError for malformed file, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("max_nesting_depth: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(invalid, nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.LogLevel = "error"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	if got.LogLevel != "error" {
		t.Errorf("GetGlobalConfig().LogLevel = %s, want error", got.LogLevel)
	}

	// callers get a copy
	got.LogLevel = "debug"
	if GetGlobalConfig().LogLevel != "error" {
		t.Error("modifying the returned config must not change the global config")
	}
}
