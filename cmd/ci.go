// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"plugctl/cli/internal/ci"
	"plugctl/cli/internal/config"
	"plugctl/cli/internal/keychain"
	"plugctl/cli/internal/prompt"
)

var loginMQTT bool

var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Manage stored credentials",
}

var ciLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the Jenkins (or MQTT) password in the OS keychain",
	Long: `login asks for a password and stores it in the OS keychain.

Without --mqtt the Jenkins location from the flags is verified by fetching
the job list, then written to the config file together with the user name.
With --mqtt the password for mqtt.username is stored instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system.")
			return err
		}

		if loginMQTT {
			if cfg.MQTT.Username == "" {
				return fmt.Errorf("set mqtt.username in %s first", cfg.File)
			}
			pw, err := readSecret(fmt.Sprintf("MQTT password for %s: ", cfg.MQTT.Username))
			if err != nil {
				return err
			}
			if err := km.SaveMQTTPassword(pw); err != nil {
				return err
			}
			pterm.Success.Println("MQTT password saved to the keychain")
			return nil
		}

		opts := jenkinsOptions(cmd)
		if opts.User == "" {
			return fmt.Errorf("a Jenkins user is required (--jenkins-user or jenkins.user)")
		}
		pw, err := readSecret(fmt.Sprintf("Jenkins password for %s: ", opts.User))
		if err != nil {
			return err
		}
		opts.Password = pw

		client, err := ci.New(opts)
		if err != nil {
			return err
		}
		stop := startInlineSpinner(os.Stdout, "verifying credentials")
		jobs, err := client.Jobs(cmd.Context())
		stop()
		if err != nil {
			pterm.Error.Println("Could not read the job list with these credentials.")
			return err
		}

		if err := km.SaveJenkinsPassword(pw); err != nil {
			return err
		}
		cfg.Jenkins.Host = opts.Host
		cfg.Jenkins.Port = opts.Port
		cfg.Jenkins.Scheme = opts.Scheme
		cfg.Jenkins.User = opts.User
		if err := config.SaveJenkins(cfg); err != nil {
			return err
		}
		pterm.Success.Printf("Logged in to %s as %s (%d jobs visible)\n", client.URL(), opts.User, len(jobs))
		return nil
	},
}

var ciLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all stored passwords from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.ClearAll(); err != nil {
			return err
		}
		pterm.Success.Println("All stored passwords have been removed")
		return nil
	},
}

// readSecret asks for a password on the standard streams.
func readSecret(label string) (string, error) {
	pw, err := prompt.Stdin().Secret(label)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func init() {
	f := ciLoginCmd.Flags()
	f.StringVar(&jenkinsHost, "jenkins-host", "", "Jenkins host name or IP")
	f.IntVar(&jenkinsPort, "jenkins-port", 80, "Jenkins port")
	f.StringVar(&jenkinsScheme, "jenkins-scheme", "http", "http or https")
	f.StringVar(&jenkinsUser, "jenkins-user", "", "Jenkins user")
	f.BoolVar(&loginMQTT, "mqtt", false, "Store the MQTT broker password instead")

	ciCmd.AddCommand(ciLoginCmd, ciLogoutCmd)
	rootCmd.AddCommand(ciCmd)
}
