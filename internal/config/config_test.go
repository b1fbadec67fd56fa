package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", cfg.Version)
	}

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %s", cfg.Store.Driver)
	}

	if cfg.Retention.Months != 3 {
		t.Errorf("expected retention 3 months, got %d", cfg.Retention.Months)
	}

	if cfg.Refresh.Momentum != time.Minute || cfg.Refresh.Probability != 30*time.Second || cfg.Refresh.Streak != time.Hour {
		t.Errorf("unexpected refresh defaults: %+v", cfg.Refresh)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid driver",
			modify:  func(c *Config) { c.Store.Driver = "bolt" },
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			modify:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
		},
		{
			name:    "valid redis driver",
			modify:  func(c *Config) { c.Store.Driver = "redis" },
			wantErr: false,
		},
		{
			name: "redis without addr",
			modify: func(c *Config) {
				c.Store.Driver = "redis"
				c.Store.Redis.Addr = ""
			},
			wantErr: true,
		},
		{
			name:    "negative max bytes",
			modify:  func(c *Config) { c.Store.MaxBytes = -1 },
			wantErr: true,
		},
		{
			name:    "zero retention",
			modify:  func(c *Config) { c.Retention.Months = 0 },
			wantErr: true,
		},
		{
			name:    "invalid intensity",
			modify:  func(c *Config) { c.Intensity = "insane" },
			wantErr: true,
		},
		{
			name:    "valid legend intensity",
			modify:  func(c *Config) { c.Intensity = "legend" },
			wantErr: false,
		},
		{
			name:    "zero refresh",
			modify:  func(c *Config) { c.Refresh.Streak = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)

	cfg := DefaultConfig()
	cfg.Intensity = "superstar"
	cfg.Refresh.Momentum = 90 * time.Second

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Intensity != "superstar" {
		t.Errorf("expected intensity superstar, got %s", loaded.Intensity)
	}
	if loaded.Refresh.Momentum != 90*time.Second {
		t.Errorf("expected momentum refresh 90s, got %s", loaded.Refresh.Momentum)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := "store:\n  driver: redis\n  redis:\n    addr: cache:6379\nrefresh:\n  streak: 2h\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != "redis" || cfg.Store.Redis.Addr != "cache:6379" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Redis.Prefix != "mastery:" {
		t.Errorf("expected default prefix to survive, got %q", cfg.Store.Redis.Prefix)
	}
	if cfg.Refresh.Streak != 2*time.Hour || cfg.Refresh.Probability != 30*time.Second {
		t.Errorf("unexpected refresh config: %+v", cfg.Refresh)
	}
}

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/mastery.yaml")
	if err != nil {
		t.Fatalf("Load() should not error for missing file, got %v", err)
	}

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %s", cfg.Store.Driver)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("store: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MASTERY_STORE_DRIVER", "redis")
	t.Setenv("MASTERY_REDIS_ADDR", "10.0.0.5:6380")
	t.Setenv("MASTERY_RETENTION_MONTHS", "6")
	t.Setenv("MASTERY_REFRESH_PROBABILITY", "45s")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Store.Driver != "redis" || cfg.Store.Redis.Addr != "10.0.0.5:6380" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Retention.Months != 6 {
		t.Errorf("expected 6 months, got %d", cfg.Retention.Months)
	}
	if cfg.Refresh.Probability != 45*time.Second {
		t.Errorf("expected 45s, got %s", cfg.Refresh.Probability)
	}
	if cfg.Store.Path != filepath.Join(".mastery", "mastery.db") {
		t.Errorf("unset variable should keep default path, got %s", cfg.Store.Path)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("MASTERY_RETENTION_MONTHS", "many")

	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric months")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	subdir := filepath.Join(dir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, FileName)
	if err := os.WriteFile(configPath, []byte("version: '1.0'"), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(subdir); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}

	if found != configPath {
		t.Errorf("expected %s, got %s", configPath, found)
	}
}
