package agent

import (
	"encoding/json"
	"strings"

	"github.com/crmarques/cortexops/warehouse"
)

// WarnFunc receives human-readable warnings raised while decoding a reply.
type WarnFunc func(format string, args ...any)

// ParseCreateBody scans describe-reply rows for the agent's declarative
// body. Two reply shapes exist: legacy rows carry a (property, value) pair
// whose property is create_body or definition; current rows expose an
// agent_spec field holding either a JSON-encoded string or an already
// structured value. Rows are scanned in order and the first match wins,
// with the legacy shape checked first within each row.
//
// A missing body returns (nil, false) and is not an error. Malformed JSON
// inside a matched field is reported through warnf and treated as missing,
// so export still succeeds with the raw rows captured for diagnosis.
func ParseCreateBody(rows []warehouse.Row, warnf WarnFunc) (map[string]any, bool) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	for _, row := range rows {
		if property, ok := row.Get("property"); ok {
			name := strings.ToLower(strings.TrimSpace(asString(property)))
			if name == "create_body" || name == "definition" {
				raw := asString(valueOf(row, "value"))
				if raw != "" {
					return decodeBodyString(name, raw, warnf)
				}
			}
		}

		if spec, ok := row.Get("agent_spec"); ok && spec != nil {
			switch typed := spec.(type) {
			case string:
				if typed != "" {
					return decodeBodyString("agent_spec", typed, warnf)
				}
			case map[string]any:
				return typed, true
			}
		}
	}

	return nil, false
}

func decodeBodyString(field string, raw string, warnf WarnFunc) (map[string]any, bool) {
	var document any
	if err := json.Unmarshal([]byte(raw), &document); err != nil {
		warnf("failed to parse %s: %v", field, err)
		return nil, false
	}

	body, ok := document.(map[string]any)
	if !ok {
		warnf("%s is valid JSON but not an object; treating as absent", field)
		return nil, false
	}
	return body, true
}

func valueOf(row warehouse.Row, name string) any {
	value, _ := row.Get(name)
	return value
}

func asString(value any) string {
	text, _ := value.(string)
	return text
}
