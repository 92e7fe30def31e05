package main

import (
	"os"

	"github.com/statesink/statesink/cmd"
)

// This is the launcher for the statesink command tree.

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
