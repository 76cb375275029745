// Package main is the entry point for clicklar-devapi, an in-memory
// marketplace API for local development and testing.
package main

import (
	"os"

	"github.com/donaldgifford/clicklar/cmd/clicklar-devapi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
