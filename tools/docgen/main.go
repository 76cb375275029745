// Package main generates CLI reference documentation from the clicklar and
// clicklar-devapi command trees.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	devapi "github.com/donaldgifford/clicklar/cmd/clicklar-devapi/cmd"
	cli "github.com/donaldgifford/clicklar/cmd/clicklar/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	for _, root := range []*cobra.Command{cli.Root(), devapi.Root()} {
		dir := filepath.Join(*output, root.Name())
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", root.Name(), err)
		}
		fmt.Printf("CLI docs for %s generated in %s/\n", root.Name(), dir)
	}
}
