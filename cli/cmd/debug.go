package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmarques/cortexops/debugctx"
)

const (
	debugGroupAll     = "all"
	debugGroupNetwork = debugctx.GroupNetwork
	debugGroupSQL     = debugctx.GroupSQL
	debugGroupExport  = debugctx.GroupExport
)

var debugGroupOrder = []string{
	debugGroupNetwork,
	debugGroupSQL,
	debugGroupExport,
}

type debugSettings struct {
	enabled bool
	groups  map[string]bool
}

var currentDebug debugSettings

func configureDebugSettings(cmd *cobra.Command) error {
	raw, err := lookupStringFlag(cmd, "debug")
	if err != nil {
		return err
	}

	settings, err := parseDebugSettings(raw)
	if err != nil {
		return usageError(cmd, err.Error())
	}
	currentDebug = settings
	return nil
}

// commandContext returns the context commands should pass down, with debug
// output wired to stderr for every enabled group.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !currentDebug.enabled {
		return ctx
	}

	ctx = debugctx.WithGroups(ctx, currentDebug.groups)
	return debugctx.WithWriter(ctx, cmd.ErrOrStderr())
}

func parseDebugSettings(raw string) (debugSettings, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return debugSettings{}, nil
	}

	groups := map[string]bool{}
	for _, entry := range splitDebugGroups(raw) {
		name := strings.ToLower(strings.TrimSpace(entry))
		if name == "" {
			continue
		}
		if name == debugGroupAll {
			return debugSettings{
				enabled: true,
				groups:  debugGroupSet(),
			}, nil
		}
		if !isKnownDebugGroup(name) {
			return debugSettings{}, fmt.Errorf("unknown debug group %q (available: %s)", name, strings.Join(knownDebugGroups(), ", "))
		}
		groups[name] = true
	}
	if len(groups) == 0 {
		return debugSettings{}, nil
	}
	return debugSettings{
		enabled: true,
		groups:  groups,
	}, nil
}

func splitDebugGroups(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
}

func knownDebugGroups() []string {
	return []string{
		debugGroupAll,
		debugGroupNetwork,
		debugGroupSQL,
		debugGroupExport,
	}
}

func debugGroupSet() map[string]bool {
	groups := map[string]bool{}
	for _, group := range debugGroupOrder {
		groups[group] = true
	}
	return groups
}

func isKnownDebugGroup(group string) bool {
	for _, name := range knownDebugGroups() {
		if name == group {
			return true
		}
	}
	return false
}
