// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"plugctl/cli/internal/prompt"
	"plugctl/cli/internal/template"
)

var (
	execSet     []string
	execValues  string
	execNoInput bool
)

var execCmd = &cobra.Command{
	Use:   "exec <host> <COMMAND>",
	Short: "Send any catalog command to a plug",
	Long: `exec sends one of the commands shown by 'plugctl list' to the plug at <host>.

Parameters are taken from --set and --values first. Anything still missing is
asked for interactively, one prompt per parameter. Parameters whose name
contains "password" are read without echo.

Examples:
  plugctl exec 10.0.0.5 GET_SYSTEM_INFO
  plugctl exec 10.0.0.5 SET_DEVICE_ALIAS --set deviceAlias="porch light"
  plugctl exec 10.0.0.5 CONNECT_TO_AP --values wifi.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExec(cmd, args[0], args[1])
	},
}

func runExec(cmd *cobra.Command, host, command string) error {
	r, err := execResolver()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	o := newExecutor().Dispatch(ctx, strings.ToUpper(command), host, flagDryRun, r)
	return finish(ctx, o, printResponse)
}

// execResolver chains the value sources: --set wins over --values, and the
// console is asked last unless --no-input is given.
func execResolver() (template.Resolver, error) {
	var chain template.Chain

	set, err := prompt.ParseSet(execSet)
	if err != nil {
		return nil, err
	}
	chain = append(chain, set)

	if execValues != "" {
		values, err := prompt.LoadValues(execValues)
		if err != nil {
			return nil, err
		}
		chain = append(chain, values)
	}

	if !execNoInput {
		chain = append(chain, prompt.Stdin())
	}
	return chain, nil
}

func init() {
	for _, c := range []*cobra.Command{execCmd, rootCmd} {
		c.Flags().StringArrayVar(&execSet, "set", nil, "Parameter value as name=value (repeatable)")
		c.Flags().StringVar(&execValues, "values", "", "YAML file with parameter values")
		c.Flags().BoolVar(&execNoInput, "no-input", false, "Fail instead of prompting for missing parameters")
	}
	rootCmd.AddCommand(execCmd)
}
