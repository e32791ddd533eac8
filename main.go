// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Command plugctl controls TP-Link HS100/HS110 smart plugs from the shell.
package main

import (
	"plugctl/cli/cmd"
)

func main() {
	cmd.Execute()
}
