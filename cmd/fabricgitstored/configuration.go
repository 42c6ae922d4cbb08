package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getConfigCmd = &cobra.Command{
	Use:   "get-config <version> <profile> <pid>",
	Short: "Print a PID configuration as key=value lines",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := ds.GetConfiguration(rootCtx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		for k, v := range values {
			fmt.Printf("%s=%s\n", k, v)
		}
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set-config <version> <profile> <pid> <key> <value>",
	Short: "Set a single key in a PID configuration",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, profile, pid, key, value := args[0], args[1], args[2], args[3], args[4]
		current, err := ds.GetConfiguration(rootCtx, version, profile, pid)
		if err != nil {
			return err
		}
		if current == nil {
			current = map[string]string{}
		}
		current[key] = value
		return ds.SetConfiguration(rootCtx, version, profile, pid, current)
	},
}

var getFileCmd = &cobra.Command{
	Use:   "get-file <version> <profile> <name>",
	Short: "Print a configuration file's raw contents to stdout",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := ds.GetFileConfiguration(rootCtx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(content)
		return err
	},
}

func init() {
	rootCmd.AddCommand(getConfigCmd)
	rootCmd.AddCommand(setConfigCmd)
	rootCmd.AddCommand(getFileCmd)
}
