package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clientbook",
	Short: "Clientbook — CRM for financial advisors",
	Long:  "Clientbook is a client-management service for financial advisors: client records, documented meetings with AI-generated summaries and sentiment, scheduled meetings, a per-client dashboard, and a market quote widget.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/clientbook.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
