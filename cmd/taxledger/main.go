// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command taxledger checks a genesis file for the ledger precompiles by
// activating every config it holds against an in-memory chain.
package main

import (
	"fmt"
	"os"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxledger",
	Short: "Taxed token and dividend staking precompile tooling",
	Long: `taxledger works with the genesis configuration of the taxed token
and dividend staking precompiles.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Root().Error("taxledger failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
