// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ci

import (
	"context"
	"strings"

	perrors "plugctl/cli/internal/errors"
)

// IgnorePrefix marks jobs that never count, regardless of configuration.
const IgnorePrefix = "ignoreme"

// ParseIgnored splits a comma-separated list of job names. Blank entries
// are rejected. Names are compared case-insensitively.
func ParseIgnored(list string) ([]string, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, perrors.New(perrors.ConfigError, "ignored jobs must not contain blank job names")
		}
		out = append(out, strings.TrimSpace(p))
	}
	return out, nil
}

// Ignored is a job left out of the decision and why.
type Ignored struct {
	Job    Job
	Reason string
}

// Report is the result of evaluating a job list.
type Report struct {
	Considered []Job
	Ignored    []Ignored
	Failed     []Job
}

// Activate reports whether any considered job failed.
func (r Report) Activate() bool { return len(r.Failed) > 0 }

// Building returns the considered jobs with a build in progress.
func (r Report) Building() []Job {
	var out []Job
	for _, j := range r.Considered {
		if j.Status.IsBuilding() {
			out = append(out, j)
		}
	}
	return out
}

// Evaluate drops ignored jobs and collects failures among the rest.
func Evaluate(jobs []Job, ignored []string) Report {
	skip := make(map[string]bool, len(ignored))
	for _, name := range ignored {
		skip[strings.ToLower(name)] = true
	}

	var r Report
	for _, j := range jobs {
		name := strings.ToLower(j.Name)
		switch {
		case strings.HasPrefix(name, IgnorePrefix):
			r.Ignored = append(r.Ignored, Ignored{Job: j, Reason: "because name starts with '" + IgnorePrefix + "'"})
			continue
		case skip[name]:
			r.Ignored = append(r.Ignored, Ignored{Job: j, Reason: "by configuration"})
			continue
		}
		r.Considered = append(r.Considered, j)
		if j.Status.IsFailure() {
			r.Failed = append(r.Failed, j)
		}
	}
	return r
}

// JobLister is satisfied by *Client.
type JobLister interface {
	Jobs(ctx context.Context) ([]Job, error)
}

// Check fetches the job list and evaluates it.
func Check(ctx context.Context, src JobLister, ignored []string) (Report, error) {
	jobs, err := src.Jobs(ctx)
	if err != nil {
		return Report{}, err
	}
	return Evaluate(jobs, ignored), nil
}
