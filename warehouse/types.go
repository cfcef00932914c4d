// Package warehouse defines the value types and transport interfaces shared
// by the session (SQL) and stateless (REST) channels to the backend.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// Field is one named property cell of a reply row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered sequence of property fields. Order is preserved all the
// way into the export artifact so the raw reply stays auditable.
type Row []Field

// Get returns the value of the named field, matching case-insensitively the
// way the backend's column naming varies between reply shapes.
func (r Row) Get(name string) (any, bool) {
	for _, field := range r {
		if strings.EqualFold(field.Name, name) {
			return field.Value, true
		}
	}
	return nil, false
}

// MarshalJSON renders the row as a JSON object in field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, field := range r {
		if idx > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is a decoded REST reply. The agent API's responses are loosely
// shaped, so they stay as generic documents.
type Result map[string]any

// Querier is the session-oriented query/command channel. One instance maps
// to one live connection; callers own Close.
type Querier interface {
	UseDatabase(ctx context.Context, name string) error
	UseSchema(ctx context.Context, name string) error
	Exec(ctx context.Context, statement string, args ...any) error
	Query(ctx context.Context, statement string, args ...any) ([]Row, error)
	User() string
	Close() error
}

// AgentAPI is the stateless token-authenticated channel for agent mutations.
type AgentAPI interface {
	CreateAgent(ctx context.Context, database, schema, name string, body map[string]any) (Result, error)
	UpdateAgent(ctx context.Context, database, schema, name string, body map[string]any) (Result, error)
}
