package main

import (
	"fmt"
	"os"

	"github.com/crmarques/cortexops/cli/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !cmd.IsHandled(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCodeForError(err))
}
