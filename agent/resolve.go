package agent

import (
	"fmt"

	"github.com/crmarques/cortexops/faults"
)

// ResolvedImport is the outcome of interpreting an input document for the
// import path: where the agent goes, what body to send, and which tool
// version produced the artifact (empty for raw bodies).
type ResolvedImport struct {
	Coordinate          Coordinate
	Body                map[string]any
	ArtifactToolVersion string
}

// ResolveImport interprets document either as an export artifact (both a
// metadata block and a create_body key present) or as a raw declarative
// body. For artifacts, explicit overrides take precedence over metadata
// coordinates and a null create_body is fatal. For raw bodies, coordinates
// must come entirely from the overrides.
func ResolveImport(document map[string]any, overrides Coordinate) (ResolvedImport, error) {
	resolved := ResolvedImport{Coordinate: overrides}

	metadata, hasMetadata := document["metadata"].(map[string]any)
	body, hasBody := document["create_body"]

	if hasMetadata && hasBody {
		if body == nil {
			return ResolvedImport{}, faults.NewTypedError(faults.ConfigError,
				"export artifact does not contain a create_body; the agent may not support this format", nil)
		}
		typedBody, ok := body.(map[string]any)
		if !ok {
			return ResolvedImport{}, faults.NewTypedError(faults.ConfigError,
				"export artifact create_body is not an object", nil)
		}
		resolved.Body = typedBody

		if resolved.Coordinate.Database == "" {
			resolved.Coordinate.Database = stringField(metadata, "database")
		}
		if resolved.Coordinate.Schema == "" {
			resolved.Coordinate.Schema = stringField(metadata, "schema")
		}
		if resolved.Coordinate.Name == "" {
			resolved.Coordinate.Name = stringField(metadata, "agent_name")
		}
		resolved.ArtifactToolVersion = stringField(metadata, "tool_version")
	} else {
		resolved.Body = document
	}

	if !resolved.Coordinate.Complete() {
		return ResolvedImport{}, faults.NewTypedError(faults.ConfigError, fmt.Sprintf(
			"database, schema, and agent name must be provided either in the input file metadata or via --database, --schema, --name (resolved: database=%q schema=%q name=%q)",
			resolved.Coordinate.Database, resolved.Coordinate.Schema, resolved.Coordinate.Name), nil)
	}

	return resolved, nil
}

func stringField(document map[string]any, key string) string {
	value, _ := document[key].(string)
	return value
}
