// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/neterrors"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatFailure explains a failed dispatch in user terms, with a hint that
// depends on the error kind and the masked technical details underneath.
func FormatFailure(command string, err error) string {
	var b strings.Builder

	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("Command %s failed", command))
	b.WriteString("\n\n")

	switch perrors.KindOf(err) {
	case perrors.UnknownCommand:
		b.WriteString("The plug does not know this command.\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'plugctl list' to see the available commands"))
	case perrors.MissingPlaceholder:
		b.WriteString("A parameter for this command has no value.\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Pass it with --set name=value or --values file.yaml"))
	case perrors.InvalidSubstitution:
		b.WriteString("A parameter value does not fit into the command's JSON.\n")
		b.WriteString("Numbers must be plain numbers; text must not contain unescaped quotes.\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the values you entered"))
	case perrors.ConnectionError:
		headline, causes := neterrors.Describe(err, "the plug")
		b.WriteString(headline + ". This usually happens when:\n")
		for _, c := range causes {
			b.WriteString("  • " + c + "\n")
		}
		b.WriteString("  • A firewall blocks TCP port 9999\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ The command was not retried; check the plug and run it again"))
	case perrors.ProtocolError:
		b.WriteString("The plug closed the connection without a valid answer.\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ The device may not be an HS100/HS110 or may use newer firmware"))
	case perrors.ConfigError:
		b.WriteString("The arguments or configuration are invalid.\n")
	default:
		b.WriteString("An unexpected error occurred.\n")
	}
	b.WriteString("\n")

	if err != nil {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(err.Error())))
	}
	return b.String()
}

// PresentFailure prints FormatFailure to the terminal.
func PresentFailure(command string, err error) {
	fmt.Println()
	fmt.Println(FormatFailure(command, err))
	fmt.Println()
}
