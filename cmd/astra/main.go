// Package main provides the entry point for the astra CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuv008/ASTra/cmd/astra/commands"
	"github.com/yuv008/ASTra/pkg/version"
)

// Process exit statuses. Analysis failures and tripped severity gates
// share exitFailure; command line mistakes get exitUsage.
const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "astra",
		Short: "Astra - static analysis for JavaScript and TypeScript",
		Long: `Astra analyzes JavaScript and TypeScript sources for security
vulnerabilities, complexity hotspots and code quality smells.

Commands:
  run        Analyze a file or directory
  analyzers  List the built-in analyzers and their rules`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", commands.ErrUsage, err)
	})

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewAnalyzersCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if errors.Is(err, commands.ErrUsage) {
			os.Exit(exitUsage)
		}

		os.Exit(exitFailure)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
