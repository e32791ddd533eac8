// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all commands the plug understands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCommandList(cmd.OutOrStdout())
	},
}

func printCommandList(w io.Writer) error {
	data := pterm.TableData{{"COMMAND", "CHANGES STATE", "PARAMETERS"}}
	for _, c := range catalog.Default().All() {
		changes := "no"
		if c.MutatesState {
			changes = "yes"
		}
		data = append(data, []string{string(c.ID), changes, joinOrDash(c.Placeholders())})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
