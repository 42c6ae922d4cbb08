package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles <version>",
	Short: "List profiles defined on a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := ds.ListProfiles(rootCtx, args[0])
		if err != nil {
			return err
		}
		for _, p := range ps {
			fmt.Println(accent.Render(p))
		}
		return nil
	},
}

var createProfileCmd = &cobra.Command{
	Use:   "create-profile <version> <profile>",
	Short: "Create a profile on a version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ds.CreateProfile(rootCtx, args[0], args[1])
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete-profile <version> <profile>",
	Short: "Delete a profile from a version",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ds.DeleteProfile(rootCtx, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(createProfileCmd)
	rootCmd.AddCommand(deleteProfileCmd)
}
