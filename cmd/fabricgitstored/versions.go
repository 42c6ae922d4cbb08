package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List known versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		vs, err := ds.ListVersions(rootCtx)
		if err != nil {
			return err
		}
		for _, v := range vs {
			fmt.Println(accent.Render(v))
		}
		return nil
	},
}

var createVersionCmd = &cobra.Command{
	Use:   "create-version <id>",
	Short: "Create a new version, branching from master",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ds.CreateVersion(rootCtx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(createVersionCmd)
}
