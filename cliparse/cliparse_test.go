// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:env.db")
	t.Setenv("TOKEN_HASH_SALT", "env-salt")
}

func TestParseFlags_EnvFallback(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "5001")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("CLIENT_URL", "https://polls.example.com")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 5001 {
		t.Errorf("Expected port 5001, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:env.db" {
		t.Errorf("Expected env database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.TokenSalt != "env-salt" {
		t.Errorf("Expected env salt, got %q", cfg.TokenSalt)
	}
	if cfg.ClientURL != "https://polls.example.com" {
		t.Errorf("Expected env client URL, got %q", cfg.ClientURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "5001")

	cfg, err := ParseFlags([]string{"-p", "6000", "-d", "file:cli.db"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 6000 {
		t.Errorf("CLI port should win over env, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:cli.db" {
		t.Errorf("CLI database URL should win over env, got %q", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Expected default port 4000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.UniqueByIP {
		t.Error("UniqueByIP should default off")
	}
	if cfg.DeviceCooldown != 0 {
		t.Errorf("DeviceCooldown should default off, got %v", cfg.DeviceCooldown)
	}
	if cfg.VoteRateMax != 5 || cfg.VoteRateWindow != 5*time.Minute {
		t.Errorf("Expected 5 attempts per 5m, got %d per %v", cfg.VoteRateMax, cfg.VoteRateWindow)
	}
}

func TestParseFlags_PolicyFlags(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{"-unique-ip", "-device-cooldown", "10m"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if !cfg.UniqueByIP {
		t.Error("Expected UniqueByIP enabled")
	}
	if cfg.DeviceCooldown != 10*time.Minute {
		t.Errorf("Expected 10m cooldown, got %v", cfg.DeviceCooldown)
	}
}

func TestParseFlags_LimiterEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VOTE_RATE_MAX", "20")
	t.Setenv("VOTE_RATE_WINDOW", "1m")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.VoteRateMax != 20 {
		t.Errorf("Expected 20 attempts from env, got %d", cfg.VoteRateMax)
	}
	if cfg.VoteRateWindow != time.Minute {
		t.Errorf("Expected 1m window from env, got %v", cfg.VoteRateWindow)
	}
}

func TestParseFlags_PolicyEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UNIQUE_BY_IP", "true")
	t.Setenv("DEVICE_COOLDOWN", "2m")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if !cfg.UniqueByIP {
		t.Error("Expected UniqueByIP from env")
	}
	if cfg.DeviceCooldown != 2*time.Minute {
		t.Errorf("Expected 2m cooldown from env, got %v", cfg.DeviceCooldown)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "missing database URL",
			env:  map[string]string{"TOKEN_HASH_SALT": "s"},
		},
		{
			name: "missing token salt",
			env:  map[string]string{"DATABASE_URL": "file:x.db"},
		},
		{
			name: "bad database type",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s"},
			args: []string{"-t", "mysql"},
		},
		{
			name: "bad PORT env",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s", "PORT": "abc"},
		},
		{
			name: "bad UNIQUE_BY_IP env",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s", "UNIQUE_BY_IP": "maybe"},
		},
		{
			name: "bad DEVICE_COOLDOWN env",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s", "DEVICE_COOLDOWN": "soon"},
		},
		{
			name: "bad VOTE_RATE_MAX env",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s", "VOTE_RATE_MAX": "lots"},
		},
		{
			name: "bad VOTE_RATE_WINDOW env",
			env:  map[string]string{"DATABASE_URL": "file:x.db", "TOKEN_HASH_SALT": "s", "VOTE_RATE_WINDOW": "soon"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// t.Setenv restores after the subtest; unset the required
			// pair first so each case starts clean
			t.Setenv("DATABASE_URL", "")
			t.Setenv("TOKEN_HASH_SALT", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tc.args); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
