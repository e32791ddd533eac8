// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

// Version is set at build time with -ldflags "-X plugctl/cli/cmd.Version=1.2.3".
var Version = "0.0.0-dev"

// userAgent identifies plugctl to Jenkins and the MQTT broker.
func userAgent() string {
	return "plugctl/" + Version
}
