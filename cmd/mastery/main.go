// Mastery is a CLI for tracking daily practice, streaks and momentum.
package main

import (
	"fmt"
	"os"

	"github.com/swamp-dev/mastery/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
