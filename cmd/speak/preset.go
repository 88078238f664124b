package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var presetFlags optionFlags

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save, show and list option presets",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name> <text> [language]",
	Short: "Save the options built from the flags under name",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := presetFlags.build(args[1], args[2:])
		if err != nil {
			return err
		}
		if err := presetStore().Save(args[0], options); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved preset %s\n", args[0])
		return err
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved preset as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := presetStore().Load(args[0])
		if err != nil {
			return err
		}
		document, err := json.MarshalIndent(options, "", "  ")
		if err != nil {
			return errors.Wrap(err, "cannot encode preset")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(document))
		return err
	},
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := presetStore().List()
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	presetFlags.register(presetSaveCmd)
	presetCmd.AddCommand(presetSaveCmd, presetShowCmd, presetListCmd)
	rootCmd.AddCommand(presetCmd)
}
