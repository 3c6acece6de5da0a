package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", config.Server.Host)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Gate.Password != "qi666" {
			t.Errorf("expected gate password qi666, got %s", config.Gate.Password)
		}

		if len(config.Gate.Links) != 1 || config.Gate.Links[0].Title != "腾讯云分流" {
			t.Errorf("unexpected gate links: %+v", config.Gate.Links)
		}

		if config.Upstream.QQ.GUID != "2095717240" {
			t.Errorf("expected guid 2095717240, got %s", config.Upstream.QQ.GUID)
		}

		if config.Database.Path != "musicgate.db" {
			t.Errorf("expected database path musicgate.db, got %s", config.Database.Path)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		config := ServerConfig{Host: "0.0.0.0", Port: 8080}
		if config.Addr() != "0.0.0.0:8080" {
			t.Errorf("unexpected addr: %s", config.Addr())
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		if (UpstreamConfig{TimeoutSeconds: 5}).Timeout() != 5*time.Second {
			t.Error("expected configured timeout")
		}
		if (UpstreamConfig{}).Timeout() != 10*time.Second {
			t.Error("expected 10s default timeout")
		}
		if (UpstreamConfig{TimeoutSeconds: -1}).Timeout() != 10*time.Second {
			t.Error("expected 10s default for negative timeout")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[gate]
password = "secret"

[[gate.links]]
title = "mirror"
url = "https://mirror.example.com/"

[upstream]
timeout_seconds = 5

[upstream.qq]
guid = "1234567890"
uin = "42"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("unexpected addr: %s", config.Server.Addr())
		}
		if config.Gate.Password != "secret" {
			t.Errorf("unexpected password: %s", config.Gate.Password)
		}
		if len(config.Gate.Links) != 1 || config.Gate.Links[0].URL != "https://mirror.example.com/" {
			t.Errorf("unexpected links: %+v", config.Gate.Links)
		}
		if config.Upstream.Timeout() != 5*time.Second {
			t.Errorf("unexpected timeout: %v", config.Upstream.Timeout())
		}
		if config.Upstream.QQ.UIN != "42" {
			t.Errorf("unexpected uin: %s", config.Upstream.QQ.UIN)
		}
		if config.Database.MaxOpenConns != 20 {
			t.Errorf("unexpected max open conns: %d", config.Database.MaxOpenConns)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.toml")
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
