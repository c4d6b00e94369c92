package confluence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olgasafonova/confluence-upload/internal/errors"
)

func TestConfigAPIBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"instance", Config{Instance: "nebari-ai.atlassian.net"}, "https://nebari-ai.atlassian.net/wiki/rest/api"},
		{"override", Config{Instance: "ignored", BaseURL: "http://127.0.0.1:9999/wiki/rest/api/"}, "http://127.0.0.1:9999/wiki/rest/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.APIBase(); got != tt.want {
				t.Errorf("APIBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Instance: "nebari-ai.atlassian.net", SpaceKey: "PM", Email: "a@b.c", APIToken: "t"}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing instance", func(c *Config) { c.Instance = "" }, "instance"},
		{"bad instance", func(c *Config) { c.Instance = "not a host" }, "instance"},
		{"base url replaces instance", func(c *Config) { c.Instance = ""; c.BaseURL = "http://localhost:8080/wiki/rest/api" }, ""},
		{"missing space", func(c *Config) { c.SpaceKey = "" }, "space"},
		{"missing email", func(c *Config) { c.Email = "" }, "email"},
		{"missing token", func(c *Config) { c.APIToken = "" }, "api_token"},
		{"first field wins", func(c *Config) { c.SpaceKey = ""; c.Email = "" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q should name field %q", err, tt.wantField)
			}
		})
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		t.Setenv(EnvEmail, " bot@example.com ")
		t.Setenv(EnvAPIToken, "token")

		email, token, err := LoadCredentials()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if email != "bot@example.com" || token != "token" {
			t.Errorf("got %q %q", email, token)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		t.Setenv(EnvEmail, "bot@example.com")
		t.Setenv(EnvAPIToken, "")

		_, _, err := LoadCredentials()
		if !errors.IsConfig(err) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if !strings.Contains(err.Error(), "id.atlassian.com") {
			t.Errorf("error should point to token page: %v", err)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	const key = "CONFLUENCE_UPLOAD_TEST_DOTENV"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
