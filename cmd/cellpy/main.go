// Command cellpy exports battery cycler data and manages cellpy parameter
// files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cellpy/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
