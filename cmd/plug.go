// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/catalog"
	"plugctl/cli/internal/executor"
	"plugctl/cli/internal/template"
)

var onCmd = &cobra.Command{
	Use:   "on <host>",
	Short: "Switch the relay on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(cmd, args[0], true)
	},
}

var offCmd = &cobra.Command{
	Use:   "off <host>",
	Short: "Switch the relay off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch(cmd, args[0], false)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <host>",
	Short: "Print the plug's system information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

func runSwitch(cmd *cobra.Command, host string, on bool) error {
	ctx := cmd.Context()
	o := newExecutor().Switch(ctx, host, on, flagDryRun)
	return finish(ctx, o, func(o executor.Outcome) {
		state := "off"
		if on {
			state = "on"
		}
		pterm.Success.Printf("Plug at %s switched %s\n", host, state)
	})
}

func runInfo(cmd *cobra.Command, host string) error {
	ctx := cmd.Context()
	o := newExecutor().Dispatch(ctx, string(catalog.GetSystemInfo), host, flagDryRun, template.None)
	return finish(ctx, o, printResponse)
}

func init() {
	rootCmd.AddCommand(onCmd, offCmd, infoCmd)
}
