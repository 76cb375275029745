// Package main is the entry point for the clicklar CLI.
package main

import "github.com/donaldgifford/clicklar/cmd/clicklar/cmd"

func main() {
	cmd.Execute()
}
