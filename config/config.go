// Package config loads the migration settings from the environment.
// A .env file in the working directory is honoured when present so the
// tool can run outside of CI without exporting variables by hand.
package config

import (
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/xo/dburl"
)

// Settings holds everything the pipeline needs to reach the source query
// API and the target database.
type Settings struct {
	SourceURL        string `env:"DATBOLT_SOURCE_URL" env-required:"true" env-description:"base URL of the source query API"`
	SourceServiceKey string `env:"DATBOLT_SOURCE_SERVICE_KEY" env-required:"true" env-description:"service credential for the source query API"`
	TargetDSN        string `env:"DATBOLT_TARGET_DSN" env-required:"true" env-description:"postgres connection string for the target database"`
	PageSize         int    `env:"DATBOLT_PAGE_SIZE" env-default:"1000" env-description:"rows fetched per page from the source"`
	ReportDir        string `env:"DATBOLT_REPORT_DIR" env-default:"." env-description:"directory for the JSON run report"`
}

// Load reads Settings from the environment (after an optional .env load)
// and validates them. Missing or malformed connection parameters are fatal
// to the run, so callers should treat any error here as terminal.
func Load() (*Settings, error) {
	_ = godotenv.Load() // best effort; absence of .env is normal.
	s := &Settings{}
	if err := cleanenv.ReadEnv(s); err != nil {
		return nil, errors.Wrap(err, "unable to read configuration from environment")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	u, err := url.Parse(s.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("source URL %q is not a valid http(s) URL", s.SourceURL)
	}
	d, err := dburl.Parse(s.TargetDSN)
	if err != nil {
		return errors.Wrap(err, "unable to parse target DSN")
	}
	if d.Driver != "pgx" && d.Driver != "postgres" {
		return errors.Errorf("target DSN must be a postgres connection string, got driver %q", d.Driver)
	}
	if s.PageSize <= 0 {
		return errors.Errorf("page size must be a positive integer, got %v", s.PageSize)
	}
	return nil
}

// RedactedTargetDSN returns the target DSN with credentials stripped for
// safe logging.
func (s *Settings) RedactedTargetDSN() string {
	d, err := dburl.Parse(s.TargetDSN)
	if err != nil {
		return "(unparseable DSN)"
	}
	d.User = nil
	return d.URL.String()
}
