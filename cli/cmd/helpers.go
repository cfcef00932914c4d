package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type handledError struct {
	msg string
}

func (handledError) handledMarker() {}

func (e handledError) Error() string {
	return e.msg
}

type handled interface {
	handledMarker()
}

// ExitCodeForError maps the error returned by Execute to a process exit
// code. Every fatal error exits 1; nil exits 0.
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// IsHandled reports whether the error was already reported to the user, so
// main should not print it again.
func IsHandled(err error) bool {
	_, ok := err.(handled)
	return ok
}

func usageError(cmd *cobra.Command, message string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = "invalid command usage"
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n\n", msg)
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())

	return handledError{msg: msg}
}

func successf(cmd *cobra.Command, format string, args ...any) {
	if noStatusOutput {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[OK] "+format+"\n", args...)
}

func infof(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

// statusPrinter adapts a command's stderr to the engines' StatusFunc shape,
// honoring --no-status.
func statusPrinter(cmd *cobra.Command) func(format string, args ...any) {
	return func(format string, args ...any) {
		if noStatusOutput {
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

func lookupStringFlag(cmd *cobra.Command, name string) (string, error) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(name)
	}
	if flag == nil {
		return "", nil
	}
	return flag.Value.String(), nil
}

func requireFlags(cmd *cobra.Command, pairs ...[2]string) error {
	var missing []string
	for _, pair := range pairs {
		if strings.TrimSpace(pair[1]) == "" {
			missing = append(missing, pair[0])
		}
	}
	if len(missing) > 0 {
		return usageError(cmd, "required: "+strings.Join(missing, ", "))
	}
	return nil
}
