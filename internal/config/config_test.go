package config

import (
	"os"
	"path/filepath"
	"testing"

	"aptigenius-backend/internal/model"
)

const sampleXML = `<API REQUEST_DUMP="true">
	<CONTEXT><PORT>8081</PORT><HOST>127.0.0.1</HOST></CONTEXT>
	<AUTHENTICATION>
		<ACCESS_SECRET>a</ACCESS_SECRET>
		<REFRESH_SECRET>r</REFRESH_SECRET>
	</AUTHENTICATION>
	<DB><DRIVER>sqlite</DRIVER><SQLITE_PATH>test.db</SQLITE_PATH></DB>
	<TEST><DURATION_SECONDS>600</DURATION_SECONDS></TEST>
</API>`

const sampleYAML = `
request_dump: false
context:
  port: 9000
authentication:
  access_secret: a
  refresh_secret: r
db:
  driver: postgres
  host: db
  password:
    value: secret
`

func TestParseXML(t *testing.T) {
	cfg, err := Parse([]byte(sampleXML), ".xml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg.applyDefaults()

	if !cfg.RequestDump {
		t.Error("expected REQUEST_DUMP to be set")
	}
	if got := cfg.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr = %q", got)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "test.db" {
		t.Errorf("unexpected db section: %+v", cfg.DB)
	}
	want := model.TestSettings{DurationSeconds: 600, DefaultLimit: 10, MaxLimit: 50}
	if got := cfg.TestSettings(); got != want {
		t.Errorf("TestSettings = %+v, want %+v", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), ".yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg.applyDefaults()

	if cfg.Context.Port != 9000 || cfg.DB.Host != "db" || cfg.DB.Password.Value != "secret" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if got := cfg.TestSettings().DurationSeconds; got != 1800 {
		t.Errorf("default duration = %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*APIConfig)
	}{
		{"missing access secret", func(c *APIConfig) { c.Authentication.AccessSecret = "" }},
		{"missing refresh secret", func(c *APIConfig) { c.Authentication.RefreshSecret = "" }},
		{"unknown driver", func(c *APIConfig) { c.DB.Driver = "mongo" }},
		{"negative duration", func(c *APIConfig) { c.Test.DurationSeconds = -1 }},
		{"default above max", func(c *APIConfig) { c.Test.DefaultLimit = 60 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(sampleXML), ".xml")
			if err != nil {
				t.Fatal(err)
			}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("JWT_ACCESS_SECRET", "from-env")
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Authentication.AccessSecret != "from-env" {
		t.Errorf("access secret = %q", cfg.Authentication.AccessSecret)
	}
	if cfg.Context.Port != 7000 {
		t.Errorf("port = %d", cfg.Context.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := LoadConfig("nope.xml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
