package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// Connection sources reported in logs and errors.
const (
	SourceDatabaseURL       = "DATABASE_URL"
	SourceDefaultConnection = "DefaultConnection"
)

const (
	defaultPostgresPort = "5432"
	requiredSSLMode     = "require"
)

// urlShape matches strings that start with a URL scheme.
var urlShape = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// ConfigurationError reports a missing or malformed connection descriptor.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Descriptor is the parsed form of a postgres connection URL.
type Descriptor struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string

	// Params carries any extra query parameters from the URL.
	Params url.Values
}

// String renders the descriptor as a libpq key=value connection string.
func (d *Descriptor) String() string {
	q := url.Values{}
	for k, vs := range d.Params {
		if len(vs) > 0 {
			q.Set(k, vs[0])
		}
	}
	q.Set("sslmode", d.SSLMode)

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Database,
		RawQuery: q.Encode(),
	}

	// The URL is built from validated parts, so pq cannot reject it.
	s, _ := pq.ParseURL(u.String())
	return s
}

// ParsePostgresURL parses a postgres:// or postgresql:// URL into a
// Descriptor with SSL required.
func ParsePostgresURL(raw string) (*Descriptor, error) {
	u, err := url.Parse(raw)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("parse %s: %w", RedactURL(raw), err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, errors.New("missing user info")
	}

	host := u.Hostname()
	if host == "" {
		return nil, errors.New("missing host")
	}

	port := u.Port()
	if port == "" {
		port = defaultPostgresPort
	}

	password, _ := u.User.Password()

	params := u.Query()
	params.Del("sslmode")

	return &Descriptor{
		Host:     host,
		Port:     port,
		Database: strings.TrimPrefix(u.Path, "/"),
		User:     u.User.Username(),
		Password: password,
		SSLMode:  requiredSSLMode,
		Params:   params,
	}, nil
}

// ResolveConnection picks the connection descriptor for the relational store.
//
// A URL-shaped databaseURL is normalized to key=value form; any other
// non-empty databaseURL is returned unchanged. When databaseURL is empty the
// fallback is used and must not be blank.
func ResolveConnection(databaseURL, fallback string, logger *slog.Logger) (string, error) {
	if databaseURL == "" {
		logger.Info("resolving database connection", "source", SourceDefaultConnection)
		if strings.TrimSpace(fallback) == "" {
			logger.Error("no database connection configured")
			return "", &ConfigurationError{
				Source: SourceDefaultConnection,
				Err:    errors.New("DATABASE_URL is not set and DefaultConnection is empty"),
			}
		}
		return fallback, nil
	}

	logger.Info("resolving database connection", "source", SourceDatabaseURL)

	if !urlShape.MatchString(databaseURL) {
		logger.Info("DATABASE_URL is not a URL, using it as a key=value connection string")
		return databaseURL, nil
	}

	d, err := ParsePostgresURL(databaseURL)
	if err != nil {
		logger.Error("failed to parse DATABASE_URL", "error", SanitizeError(err, databaseURL))
		return "", &ConfigurationError{Source: SourceDatabaseURL, Err: err}
	}

	logger.Info("parsed DATABASE_URL",
		"host", d.Host,
		"port", d.Port,
		"database", d.Database,
		"sslmode", d.SSLMode,
	)

	return d.String(), nil
}

// ResolveConnection resolves the connection descriptor from this Config.
func (c *Config) ResolveConnection(logger *slog.Logger) (string, error) {
	return ResolveConnection(c.DatabaseURL, c.DefaultConnection, logger)
}
