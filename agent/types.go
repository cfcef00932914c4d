// Package agent holds the domain types for declarative agent resources: the
// coordinate addressing a remote agent, the export artifact written to disk,
// and the decoding of the backend's heterogeneous describe replies.
package agent

import (
	"github.com/crmarques/cortexops/warehouse"
)

// Coordinate uniquely addresses a remote agent. Immutable once constructed;
// it doubles as the artifact filename stem during export.
type Coordinate struct {
	Database string
	Schema   string
	Name     string
}

func (c Coordinate) QualifiedName() string {
	return warehouse.QualifiedName(c.Database, c.Schema, c.Name)
}

// FileStem is the globally unique filename stem for bulk export output.
func (c Coordinate) FileStem() string {
	return c.Database + "." + c.Schema + "." + c.Name
}

func (c Coordinate) Complete() bool {
	return c.Database != "" && c.Schema != "" && c.Name != ""
}

// Metadata records export provenance. It is never reinterpreted on import
// unless explicit overrides are absent.
type Metadata struct {
	Database    string `json:"database"`
	Schema      string `json:"schema"`
	AgentName   string `json:"agent_name"`
	ExportedBy  string `json:"exported_by"`
	ToolVersion string `json:"tool_version"`
}

// Artifact is the canonical on-disk representation of one agent at a point
// in time. DescribeResults keeps the raw property rows verbatim for audit;
// CreateBody may be nil when the backend's reply carried no declarative
// body, which is a legitimate state for export but fatal for import.
type Artifact struct {
	Metadata        Metadata        `json:"metadata"`
	DescribeResults []warehouse.Row `json:"describe_results"`
	CreateBody      map[string]any  `json:"create_body"`
}
