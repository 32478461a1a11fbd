package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deckschema",
		Short:         "Convert presentations into the Universal Schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(convertCmd())
	root.AddCommand(inspectCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
