// Package main is the entry point for the ledwall CLI.
package main

import (
	"os"

	"github.com/Simplici0/ledwall/cmd/ledwall/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
