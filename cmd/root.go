// Package cmd wires the cobra CLI entry point used to start the
// interactive shell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"myshell/internal/shell"
)

var rootCmd = &cobra.Command{
	Use:   "myshell",
	Short: "myshell is an interactive Unix command shell",
	Long: `myshell is an interactive Unix command shell supporting pipelines,
I/O redirection, and background jobs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := shell.New()
		return s.Run(os.Stdin, os.Stdout, os.Stderr)
	},
}

// Execute runs the root command. A getcwd failure or a non-EOF stdin
// read error inside the shell loop is fatal; it surfaces here as a
// non-zero exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
