// Package main is the entry point for the herddir CLI.
package main

import (
	"os"

	"github.com/herddir/herddir/cmd/herddir/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
