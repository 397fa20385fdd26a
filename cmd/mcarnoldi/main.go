// SPDX-License-Identifier: MIT

// Command mcarnoldi solves the fission-source eigenproblem of a 1-D slab with
// restarted Arnoldi over a Monte Carlo transport operator.
//
//	mcarnoldi run --config run.yaml [--debug] [--metrics-addr :9090]
//	mcarnoldi version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mcarnoldi",
		Short: "Monte Carlo restarted Arnoldi eigensolver",
		Long: `mcarnoldi estimates the dominant eigenpairs of a multiplying slab.
Each operator application is a batch of Monte Carlo histories; the Krylov
machinery restarts implicitly or explicitly and reports running statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the solver described by a YAML file",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	runCmd.Flags().StringP("config", "c", "", "Run file (default: built-in slab)")
	runCmd.Flags().Bool("debug", false, "Force debug logging")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mcarnoldi", version)
		},
	}

	rootCmd.AddCommand(runCmd, versionCmd)

	return rootCmd
}
