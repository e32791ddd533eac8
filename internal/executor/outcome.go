// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package executor

import (
	"plugctl/cli/internal/catalog"
)

// Status tags the result of a dispatch.
type Status int

const (
	// Executed means the plug answered; Outcome.Response holds its reply.
	Executed Status = iota + 1
	// SkippedDryRun means a state-changing command was not sent.
	SkippedDryRun
	// Failed means Outcome.Err describes what went wrong.
	Failed
)

func (s Status) String() string {
	switch s {
	case Executed:
		return "executed"
	case SkippedDryRun:
		return "skipped_dry_run"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one dispatch.
type Outcome struct {
	Command     catalog.ID
	Destination string
	DryRun      bool
	Status      Status
	Response    string
	Err         error
}

// OK reports whether the dispatch did not fail.
func (o Outcome) OK() bool { return o.Status != Failed }

func (o Outcome) fail(err error) Outcome {
	o.Status = Failed
	o.Err = err
	return o
}
