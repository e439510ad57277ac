// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/stellar/go/network"

	"github.com/danielhkuo/ledger-ballot/phase"
)

// Testnet defaults
const (
	DefaultHorizonURL   = "https://horizon-testnet.stellar.org/"
	DefaultFriendbotURL = "https://friendbot.stellar.org/"
	DefaultPort         = 5000
	DefaultSchedule     = "@every 1m"
	DefaultMongoDB      = "ballot"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	HorizonURL        string
	NetworkPassphrase string
	FriendbotURL      string
	SubmitAttempts    int
	ReadAttempts      int

	VotePolicy        phase.VotePolicy
	ReconcileSchedule string
	TallyLocation     *time.Location

	MongoURL      string
	MongoDatabase string
}

// ParseFlags loads .env, validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	// A missing .env file is fine; real environments set variables directly
	_ = godotenv.Load()

	var cfg Config
	var policy, tz string
	var friendbot optionalString
	var schedule optionalString

	fs := flag.NewFlagSet("ledger-ballot", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	// Ledger
	fs.StringVar(&cfg.HorizonURL, "horizon", "", "Ledger (Horizon) server URL")
	fs.StringVar(&cfg.NetworkPassphrase, "passphrase", "", "Ledger network passphrase")
	fs.Var(&friendbot, "friendbot", "Funding endpoint for new election accounts (empty disables)")
	fs.IntVar(&cfg.SubmitAttempts, "submit-attempts", 0, "Attempts per vote on sequence conflict")
	fs.IntVar(&cfg.ReadAttempts, "read-attempts", 0, "Attempts per ledger read")

	// Election behaviour
	fs.StringVar(&policy, "vote-policy", "", "Phases that accept votes (strict or legacy)")
	fs.Var(&schedule, "reconcile", "Cron schedule for the reconciliation sweep (empty disables)")
	fs.StringVar(&tz, "tz", "", "Timezone for hourly tallies")

	// Activity log
	fs.StringVar(&cfg.MongoURL, "mongo", "", "MongoDB URL for the activity log")
	fs.StringVar(&cfg.MongoDatabase, "mongo-db", "", "MongoDB database name")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.HorizonURL == "" {
		cfg.HorizonURL = envOr("LEDGER_SERVER", DefaultHorizonURL)
	}
	if cfg.NetworkPassphrase == "" {
		cfg.NetworkPassphrase = envOr("LEDGER_NETWORK_PASSPHRASE", network.TestNetworkPassphrase)
	}
	cfg.FriendbotURL = friendbot.resolve("LEDGER_FRIENDBOT_URL", DefaultFriendbotURL)

	if cfg.SubmitAttempts == 0 {
		n, err := envInt("LEDGER_SUBMIT_ATTEMPTS", 3)
		if err != nil {
			return Config{}, err
		}
		cfg.SubmitAttempts = n
	}
	if cfg.ReadAttempts == 0 {
		n, err := envInt("LEDGER_READ_ATTEMPTS", 3)
		if err != nil {
			return Config{}, err
		}
		cfg.ReadAttempts = n
	}
	if cfg.SubmitAttempts < 1 || cfg.ReadAttempts < 1 {
		return Config{}, errors.New("ledger attempts must be at least 1")
	}

	if policy == "" {
		policy = os.Getenv("VOTE_PHASE_POLICY")
	}
	votePolicy, err := phase.ParsePolicy(policy)
	if err != nil {
		return Config{}, err
	}
	cfg.VotePolicy = votePolicy

	cfg.ReconcileSchedule = schedule.resolve("RECONCILE_SCHEDULE", DefaultSchedule)

	if tz == "" {
		tz = envOr("TALLY_TIMEZONE", "Local")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	cfg.TallyLocation = loc

	if cfg.MongoURL == "" {
		cfg.MongoURL = os.Getenv("MONGO_URL")
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = envOr("MONGO_DATABASE", DefaultMongoDB)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

// optionalString is a flag whose explicit empty value is distinct from unset,
// so "-friendbot=" can disable a setting that has a non-empty default.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) resolve(envKey, fallback string) string {
	if o.set {
		return o.value
	}
	if v, ok := os.LookupEnv(envKey); ok {
		return v
	}
	return fallback
}
