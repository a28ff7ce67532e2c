package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/ellone/internal/logutil"
	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with path", input: "sqlite:/var/lib/ellone", expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/ellone"}},
		{name: "uppercase engine", input: "SQLite:data", expect: Database{Type: DatabaseSQLite, DataDir: "data"}},
		{name: "sqlite without path", input: "sqlite", expectErr: true},
		{name: "inmem with params", input: "inmem:foo", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "unknown", input: "postgres:foo", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaults_Validate(t *testing.T) {
	assert := assert.New(t)

	assert.Error(Config{}.FillDefaults().Validate(), "admin password hash is required")

	cfg := Config{AdminPasswordHash: "aGFzaA=="}.FillDefaults()

	assert.NoError(cfg.Validate())
	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(DefaultListenAddress, cfg.Listen)
	assert.Equal(1000, cfg.UnauthDelayMillis)
	assert.Equal("info", cfg.Log.Level)

	cfg.TokenSecret = []byte("too short")
	assert.Error(cfg.Validate())
}

func Test_LoadConfig(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expect    Config
		expectErr bool
	}{
		{
			name: "full",
			content: `listen = "0.0.0.0:9000"
token_secret = "0123456789abcdef0123456789abcdef"
database = "sqlite:/data"
unauth_delay_ms = 250
admin_password_hash = "aGFzaA=="

[log]
level = "debug"
format = "json"
`,
			expect: Config{
				Listen:            "0.0.0.0:9000",
				TokenSecret:       []byte("0123456789abcdef0123456789abcdef"),
				DB:                Database{Type: DatabaseSQLite, DataDir: "/data"},
				UnauthDelayMillis: 250,
				AdminPasswordHash: "aGFzaA==",
				Log:               logutil.LogConfig{Level: "debug", Format: "json"},
			},
		},
		{
			name:    "partial",
			content: `database = "inmem"`,
			expect:  Config{DB: Database{Type: DatabaseInMemory}},
		},
		{
			name:      "bad database",
			content:   `database = "mongo"`,
			expectErr: true,
		},
		{
			name:      "unknown key",
			content:   `lisen = "localhost:1"`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			path := filepath.Join(t.TempDir(), "elloned.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			actual, err := LoadConfig(path)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}
