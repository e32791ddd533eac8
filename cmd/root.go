// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for plugctl. It implements
// subcommands for switching and querying TP-Link HS100/HS110 plugs, sending
// arbitrary catalog commands, driving a plug from Jenkins build status and
// serving the command catalog to other processes.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/config"
	"plugctl/cli/internal/logging"
)

var (
	flagVerbose     bool
	flagDebug       bool
	flagDryRun      bool
	flagShowSecrets bool
	flagConfig      string
	flagLogFile     string

	showVersion bool
	showList    bool
	rootCommand string

	cfg       config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

// errDispatchFailed is returned after a failure has already been shown to
// the user; Execute only sets the exit code for it.
var errDispatchFailed = errors.New("dispatch failed")

// rootCmd is the base command. Besides the subcommands it accepts the
// positional form `plugctl <host> <on|off|info|jenkins>`.
var rootCmd = &cobra.Command{
	Use:   "plugctl [<host> <on|off|info|jenkins>]",
	Short: "Control TP-Link HS100/HS110 smart plugs",
	Long: `plugctl talks to TP-Link HS100/HS110 smart plugs over their local TCP
protocol. It can switch the relay, query device state, send any of the
known commands with interactive parameter entry, and turn a plug into a
build light driven by a Jenkins server.`,
	Args:               cobra.ArbitraryArgs,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case showVersion:
			fmt.Printf("plugctl %s\n", Version)
			return nil
		case showList:
			return printCommandList(cmd.OutOrStdout())
		case rootCommand != "":
			if len(args) != 1 {
				return fmt.Errorf("--command needs exactly one <host> argument")
			}
			return runExec(cmd, args[0], rootCommand)
		case len(args) == 2:
			return runAction(cmd, args[0], args[1])
		case len(args) == 0:
			return cmd.Help()
		}
		_ = cmd.Usage()
		return fmt.Errorf("expected <host> <on|off|info|jenkins>, got %d arguments", len(args))
	},
}

// runAction maps the positional action word to its subcommand.
func runAction(cmd *cobra.Command, host, action string) error {
	switch action {
	case "on":
		return runSwitch(cmd, host, true)
	case "off":
		return runSwitch(cmd, host, false)
	case "info":
		return runInfo(cmd, host)
	case "jenkins":
		return runJenkins(cmd, host)
	}
	_ = cmd.Usage()
	return fmt.Errorf("unknown action %q", action)
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = c

	path := flagLogFile
	if path == "" {
		path = cfg.LogFile
	}
	l, closer, err := logging.NewLogger(path, flagVerbose, flagDebug)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger = l
	logCloser = closer
	logger.Debug().Str("config", cfg.File).Msg("configuration loaded")
	return nil
}

func teardown(*cobra.Command, []string) error {
	if logCloser != nil {
		err := logCloser.Close()
		logCloser = nil
		return err
	}
	return nil
}

// Execute runs the CLI and exits non-zero on any failure. Interrupts cancel
// the command context, which aborts a pending plug exchange or stops serve.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = teardown(nil, nil)
	if err == nil {
		return
	}
	if !errors.Is(err, errDispatchFailed) {
		fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
	}
	os.Exit(1)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Print which commands are sent")
	pf.BoolVarP(&flagDebug, "debug", "d", false, "Print payloads and raw responses")
	pf.BoolVar(&flagDryRun, "dry-run", false, "Do not send commands that change device state")
	pf.BoolVar(&flagShowSecrets, "show-secrets", false, "Do not mask passwords in debug output")
	pf.StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/plugctl/config.yaml)")
	pf.StringVar(&flagLogFile, "log-file", "", "Append diagnostic output to this file instead of stderr")

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.Flags().BoolVarP(&showList, "list", "L", false, "List all known commands")
	rootCmd.Flags().StringVarP(&rootCommand, "command", "c", "", "Send the named command to <host> (same as `plugctl exec <host> NAME`)")
}
