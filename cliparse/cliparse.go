package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	TokenSalt    string
	ClientURL    string

	// Duplicate-identity policy (deployment-time choice)
	UniqueByIP     bool
	DeviceCooldown time.Duration

	// Vote attempt pre-filter
	VoteRateMax    int
	VoteRateWindow time.Duration
}

// ParseFlags validates flags with env-variable fallback
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("livepoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ClientURL, "client-url", "", "Allowed CORS origin")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSalt, "token-salt", "", "Salt for hashed addresses in logs (prefer env)")

	// Duplicate-identity policy
	fs.BoolVar(&cfg.UniqueByIP, "unique-ip", false, "Enforce one vote per address per poll")
	fs.DurationVar(&cfg.DeviceCooldown, "device-cooldown", 0, "Device fingerprint cool-down window (0 disables)")

	// Vote attempt limiter
	fs.IntVar(&cfg.VoteRateMax, "vote-rate", 0, "Max vote attempts per requester per poll per window (default 5)")
	fs.DurationVar(&cfg.VoteRateWindow, "vote-window", 0, "Vote attempt window (default 5m)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.ClientURL == "" {
		cfg.ClientURL = os.Getenv("CLIENT_URL")
	}

	// Secrets - MUST be provided
	if cfg.TokenSalt == "" {
		cfg.TokenSalt = os.Getenv("TOKEN_HASH_SALT")
	}
	if cfg.TokenSalt == "" {
		return Config{}, errors.New("TOKEN_HASH_SALT required")
	}

	if !cfg.UniqueByIP {
		if v := os.Getenv("UNIQUE_BY_IP"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid UNIQUE_BY_IP env variable")
			}
			cfg.UniqueByIP = b
		}
	}
	if cfg.DeviceCooldown == 0 {
		if v := os.Getenv("DEVICE_COOLDOWN"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid DEVICE_COOLDOWN env variable")
			}
			cfg.DeviceCooldown = d
		}
	}

	if cfg.VoteRateMax == 0 {
		if v := os.Getenv("VOTE_RATE_MAX"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_RATE_MAX env variable")
			}
			cfg.VoteRateMax = n
		} else {
			cfg.VoteRateMax = 5 // default
		}
	}
	if cfg.VoteRateWindow == 0 {
		if v := os.Getenv("VOTE_RATE_WINDOW"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_RATE_WINDOW env variable")
			}
			cfg.VoteRateWindow = d
		} else {
			cfg.VoteRateWindow = 5 * time.Minute // default
		}
	}

	return cfg, nil
}
