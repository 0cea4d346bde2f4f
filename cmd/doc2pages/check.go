// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2pages/internal/command"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the external tools doc2pages needs are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := command.NewRunner()
		fmt.Println("[ Checking for requirements ... ]")
		for _, name := range command.Requirements {
			if path, err := runner.LookPath(name); err == nil {
				fmt.Printf("  %-14s %s\n", name, path)
			} else {
				fmt.Printf("  %-14s missing\n", name)
			}
		}
		return command.CheckRequirements(runner, command.Requirements...)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
