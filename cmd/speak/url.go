package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlFlags optionFlags

var urlCmd = &cobra.Command{
	Use:   "url <text> [language]",
	Short: "Print the request URL for the text without fetching it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runURL,
}

func init() {
	urlFlags.register(urlCmd)
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	options, err := urlFlags.build(args[0], args[1:])
	if err != nil {
		return err
	}
	synth, err := newSynthesizer()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), synth.URL(options).String())
	return err
}
