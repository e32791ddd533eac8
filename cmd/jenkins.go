// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/ci"
	"plugctl/cli/internal/executor"
	"plugctl/cli/internal/keychain"
	"plugctl/cli/internal/logging"
	"plugctl/cli/internal/neterrors"
)

var (
	jenkinsHost     string
	jenkinsPort     int
	jenkinsScheme   string
	jenkinsUser     string
	jenkinsPassword string
	ignoredJobs     string
)

var jenkinsCmd = &cobra.Command{
	Use:   "jenkins <host>",
	Short: "Switch the plug on while any Jenkins job is failing",
	Long: `jenkins reads the job list of a Jenkins server and switches the plug at
<host> on when at least one job is red, and off otherwise.

Jobs whose name starts with "ignoreme" are never considered. More jobs can be
excluded with --ignored-jobs or jenkins.ignored_jobs in the config file.
The password is taken from the OS keychain (see 'plugctl ci login') unless
--jenkins-password is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJenkins(cmd, args[0])
	},
}

// jenkinsOptions merges flags over configuration.
func jenkinsOptions(cmd *cobra.Command) ci.Options {
	opts := ci.Options{
		Host:      cfg.Jenkins.Host,
		Port:      cfg.Jenkins.Port,
		Scheme:    cfg.Jenkins.Scheme,
		User:      cfg.Jenkins.User,
		UserAgent: userAgent(),
		Logger:    logger,
	}
	f := cmd.Flags()
	if f.Changed("jenkins-host") {
		opts.Host = jenkinsHost
	}
	if f.Changed("jenkins-port") {
		opts.Port = jenkinsPort
	}
	if f.Changed("jenkins-scheme") {
		opts.Scheme = jenkinsScheme
	}
	if f.Changed("jenkins-user") {
		opts.User = jenkinsUser
	}
	if !flagShowSecrets {
		opts.Redact = logging.Mask
	}
	return opts
}

func jenkinsSecret(user string) (string, error) {
	if jenkinsPassword != "" || user == "" {
		return jenkinsPassword, nil
	}
	km, err := keychain.GetManager()
	if err != nil {
		return "", fmt.Errorf("open keychain: %w", err)
	}
	pw, err := km.LoadJenkinsPassword()
	if errors.Is(err, keychain.ErrNotFound) {
		return "", fmt.Errorf("no Jenkins password stored for %s; run 'plugctl ci login' first", user)
	}
	return pw, err
}

func runJenkins(cmd *cobra.Command, host string) error {
	ctx := cmd.Context()
	opts := jenkinsOptions(cmd)

	pw, err := jenkinsSecret(opts.User)
	if err != nil {
		return err
	}
	opts.Password = pw

	ignored, err := ci.ParseIgnored(ignoredJobs)
	if err != nil {
		return err
	}
	ignored = append(ignored, cfg.Jenkins.IgnoredJobs...)

	client, err := ci.New(opts)
	if err != nil {
		return err
	}

	stop := startInlineSpinner(os.Stdout, "checking "+opts.Host)
	report, err := ci.Check(ctx, client, ignored)
	stop()
	if err != nil {
		if neterrors.Classify(err) != neterrors.Other {
			neterrors.Show(err, "Jenkins at "+opts.Host)
		}
		return err
	}

	if flagVerbose {
		printReport(report)
	}

	o := newExecutor().Switch(ctx, host, report.Activate(), flagDryRun)
	return finish(ctx, o, func(executor.Outcome) {
		if report.Activate() {
			pterm.Warning.Printf("%d failing job(s); plug at %s switched on\n", len(report.Failed), host)
		} else {
			pterm.Success.Printf("All builds fine; plug at %s switched off\n", host)
		}
	})
}

func printReport(r ci.Report) {
	for _, ig := range r.Ignored {
		fmt.Printf("IGNORED job %s: %s\n", ig.Reason, ig.Job.Name)
	}
	for _, j := range r.Building() {
		fmt.Printf("BUILDING job %s (%s)\n", j.Name, j.Status)
	}
	if !r.Activate() {
		fmt.Println("No failed builds.")
		return
	}
	fmt.Println("The following projects failed to build:")
	for _, j := range r.Failed {
		fmt.Println(j.Name)
	}
}

func init() {
	for _, c := range []*cobra.Command{jenkinsCmd, rootCmd} {
		f := c.Flags()
		f.StringVar(&jenkinsHost, "jenkins-host", "", "Jenkins host name or IP (overrides jenkins.host)")
		f.IntVar(&jenkinsPort, "jenkins-port", 80, "Jenkins port (overrides jenkins.port)")
		f.StringVar(&jenkinsScheme, "jenkins-scheme", "http", "http or https (overrides jenkins.scheme)")
		f.StringVar(&jenkinsUser, "jenkins-user", "", "Jenkins user (overrides jenkins.user)")
		f.StringVar(&jenkinsPassword, "jenkins-password", "", "Jenkins password (prefer 'plugctl ci login')")
		f.StringVar(&ignoredJobs, "ignored-jobs", "", "Comma-separated job names to ignore")
	}
	rootCmd.AddCommand(jenkinsCmd)
}
