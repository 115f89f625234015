package main

import (
	"fmt"
	"os"

	"github.com/fathurrohman26/apidocs-mcp/internal/cli"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	c := cli.New(cli.WithVersionInfo(version, commit, date))
	if err := c.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
