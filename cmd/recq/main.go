// Command recq runs declarative query plans over record sets.
package main

import (
	"os"

	"github.com/kbukum/recq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
