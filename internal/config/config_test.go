package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so a developer's .env cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BOT_TOKEN", "HTTP_ADDR", "VOCAB_SOURCE", "SCHEDULER", "REMINDER_CRON", "LOG_LEVEL",
		"STORE_DRIVER", "SQLITE_PATH",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "vocab-data.json", cfg.VocabSource)
	assert.Equal(t, "sm2", cfg.Scheduler)
	assert.Equal(t, "0 9 * * *", cfg.ReminderCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "data/lexicards.db", cfg.Store.SQLitePath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "lexicards", cfg.Database.Name)
	assert.Equal(t, "lexicards", cfg.Database.User)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "postgres without password",
			env:     map[string]string{"STORE_DRIVER": "postgres"},
			wantErr: "DB_PASSWORD",
		},
		{
			name: "postgres with password",
			env:  map[string]string{"STORE_DRIVER": "postgres", "DB_PASSWORD": "secret"},
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORE_DRIVER": "mysql"},
			wantErr: "STORE_DRIVER",
		},
		{
			name:    "unknown scheduler",
			env:     map[string]string{"SCHEDULER": "fsrs"},
			wantErr: "SCHEDULER",
		},
		{
			name: "scheduler is case-insensitive",
			env:  map[string]string{"SCHEDULER": "Leveling"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestConfig_RequireBotToken(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireBotToken()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")

	cfg.BotToken = "123:abc"
	assert.NoError(t, cfg.RequireBotToken())
}
