package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <version> <profile> <name>",
	Short: "Print the commit log touching a configuration file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		commits, err := ds.GetFileHistory(rootCtx, args[0], args[1], args[2], 20)
		if err != nil {
			return err
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %s\n", accent.Render(c.Hash[:min(8, len(c.Hash))]), c.Date, c.Subject)
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <version> <profile> <name> <from> <to>",
	Short: "Diff a configuration file between two refs or time expressions",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := ds.Diff(rootCtx, args[0], args[1], args[2], args[3], args[4])
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert-to <version> <profile> <name> <ref>",
	Short: "Revert a configuration file to its content at ref",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ds.RevertTo(rootCtx, args[0], args[1], args[2], args[3])
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(revertCmd)
}
