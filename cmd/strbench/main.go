// Package main provides the entry point for the strbench CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/strbench/cmd/strbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
