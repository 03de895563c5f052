// Package main provides the entry point for the deploycheck CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/deploycheck/cmd/deploycheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
