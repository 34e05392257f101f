// Command roster runs and verifies scenarios against the in-memory user store.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/roster/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
