// Package debugctx carries opt-in debug output through context so transport
// providers can emit wire-level detail without a logger dependency.
package debugctx

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	GroupNetwork = "network"
	GroupSQL     = "sql"
	GroupExport  = "export"
)

type groupsKey struct{}
type writerKey struct{}

func WithGroups(ctx context.Context, groups map[string]bool) context.Context {
	if len(groups) == 0 {
		return ctx
	}
	return context.WithValue(ctx, groupsKey{}, groups)
}

func Enabled(ctx context.Context, group string) bool {
	if ctx == nil {
		return false
	}

	groups, _ := ctx.Value(groupsKey{}).(map[string]bool)
	return groups[group]
}

func WithWriter(ctx context.Context, writer io.Writer) context.Context {
	if writer == nil {
		return ctx
	}

	return context.WithValue(ctx, writerKey{}, writer)
}

func Writer(ctx context.Context) io.Writer {
	if ctx == nil {
		return nil
	}

	writer, _ := ctx.Value(writerKey{}).(io.Writer)
	return writer
}

func Printf(ctx context.Context, group string, format string, args ...any) {
	if !Enabled(ctx, group) {
		return
	}

	writer := Writer(ctx)
	if writer == nil {
		return
	}

	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		return
	}

	_, _ = fmt.Fprintf(writer, "debug[%s]: %s\n", group, message)
}
