package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "omise-gateway",
	Short: "Omise payment gateway service",
	Long:  "A payment gateway service for Omise card charges, webhooks, refunds, and payment sync jobs.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
