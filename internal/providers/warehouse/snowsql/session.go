// Package snowsql implements the session-oriented query/command channel on
// top of the warehouse's SQL driver. One Session wraps one live connection;
// the CLI opens at most one per invocation.
package snowsql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/debugctx"
	"github.com/crmarques/cortexops/faults"
	"github.com/crmarques/cortexops/warehouse"

	"github.com/snowflakedb/gosnowflake"
)

var _ warehouse.Querier = (*Session)(nil)

type Session struct {
	db   *sql.DB
	user string
}

// Open builds and verifies a session from resolved settings. Account and
// user are always required; authentication accepts exactly one of a
// password or a private key, and the error for a missing credential names
// both options.
func Open(ctx context.Context, settings config.Settings) (*Session, error) {
	driverConfig, err := buildDriverConfig(settings)
	if err != nil {
		return nil, err
	}

	dsn, err := gosnowflake.DSN(driverConfig)
	if err != nil {
		return nil, faults.NewTypedError(faults.ConfigError, "failed to build connection string", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "failed to initialize driver", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, faults.NewTypedError(faults.TransportError, "failed to connect to warehouse", err)
	}

	return &Session{db: db, user: driverConfig.User}, nil
}

func buildDriverConfig(settings config.Settings) (*gosnowflake.Config, error) {
	var missing []string
	if strings.TrimSpace(settings.Account) == "" {
		missing = append(missing, fmt.Sprintf("account (--account or %s)", config.AccountEnvVar))
	}
	if strings.TrimSpace(settings.User) == "" {
		missing = append(missing, fmt.Sprintf("user (--user or %s)", config.UserEnvVar))
	}
	if len(missing) > 0 {
		return nil, faults.NewTypedError(faults.ConfigError,
			"required parameters not set: "+strings.Join(missing, ", "), nil)
	}

	driverConfig := &gosnowflake.Config{
		Account:   settings.Account,
		User:      settings.User,
		Warehouse: settings.Warehouse,
		Role:      settings.RoleOrDefault(),
	}

	switch {
	case settings.Password != "":
		driverConfig.Password = settings.Password
	case settings.PrivateKeyPath != "":
		key, err := loadPrivateKey(settings.PrivateKeyPath, settings.PrivateKeyPassphrase)
		if err != nil {
			return nil, err
		}
		driverConfig.Authenticator = gosnowflake.AuthTypeJwt
		driverConfig.PrivateKey = key
	default:
		return nil, faults.NewTypedError(faults.ConfigError, fmt.Sprintf(
			"authentication not configured: set a private key (--private-key-path or %s) or a password (--password or %s)",
			config.PrivateKeyPathEnvVar, config.PasswordEnvVar), nil)
	}

	return driverConfig, nil
}

func (s *Session) UseDatabase(ctx context.Context, name string) error {
	return s.Exec(ctx, "USE DATABASE "+warehouse.QuoteIdentifier(name))
}

func (s *Session) UseSchema(ctx context.Context, name string) error {
	return s.Exec(ctx, "USE SCHEMA "+warehouse.QuoteIdentifier(name))
}

func (s *Session) Exec(ctx context.Context, statement string, args ...any) error {
	debugctx.Printf(ctx, debugctx.GroupSQL, "exec: %s", statement)

	if _, err := s.db.ExecContext(ctx, statement, args...); err != nil {
		return faults.NewTypedError(faults.TransportError, "statement failed: "+statement, err)
	}
	return nil
}

func (s *Session) Query(ctx context.Context, statement string, args ...any) ([]warehouse.Row, error) {
	debugctx.Printf(ctx, debugctx.GroupSQL, "query: %s", statement)

	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, faults.NewTypedError(faults.TransportError, "query failed: "+statement, err)
	}
	defer rows.Close()

	return collectRows(rows)
}

func (s *Session) User() string {
	return s.user
}

func (s *Session) Close() error {
	return s.db.Close()
}

func collectRows(rows *sql.Rows) ([]warehouse.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "failed to read result columns", err)
	}

	var collected []warehouse.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for idx := range values {
			pointers[idx] = &values[idx]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, faults.NewTypedError(faults.InternalError, "failed to scan result row", err)
		}

		row := make(warehouse.Row, len(columns))
		for idx, column := range columns {
			row[idx] = warehouse.Field{Name: column, Value: warehouse.NormalizeValue(values[idx])}
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.NewTypedError(faults.TransportError, "result stream failed", err)
	}

	return collected, nil
}
