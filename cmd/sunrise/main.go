package main

import (
	"fmt"
	"os"

	"github.com/sunrise-cli/sunrise/cmd/sunrise/cmd"
	"github.com/sunrise-cli/sunrise/internal/errors"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps its error to an exit code.
func run() int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return errors.GetExitCode(err)
	}
	return 0
}
