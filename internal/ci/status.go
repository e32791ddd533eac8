// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ci

import (
	"fmt"
	"strings"

	perrors "plugctl/cli/internal/errors"
)

// Status is a Jenkins job state as reported by its ball color.
type Status int

const (
	Failure Status = iota + 1
	FailureBuilding
	Unstable
	UnstableBuilding
	Success
	SuccessBuilding
	Grey
	GreyBuilding
	Disabled
	DisabledBuilding
	Aborted
	AbortedBuilding
	NotBuilt
	NotBuiltBuilding
)

var colors = map[string]Status{
	"red":            Failure,
	"red_anime":      FailureBuilding,
	"yellow":         Unstable,
	"yellow_anime":   UnstableBuilding,
	"blue":           Success,
	"blue_anime":     SuccessBuilding,
	"grey":           Grey,
	"grey_anime":     GreyBuilding,
	"disabled":       Disabled,
	"disabled_anime": DisabledBuilding,
	"aborted":        Aborted,
	"aborted_anime":  AbortedBuilding,
	"notbuilt":       NotBuilt,
	"notbuilt_anime": NotBuiltBuilding,
	"nobuilt":        NotBuilt,
	"nobuilt_anime":  NotBuiltBuilding,
}

// ParseStatus maps a Jenkins color to a Status. Blank and unknown colors are
// CI errors.
func ParseStatus(color string) (Status, error) {
	c := strings.TrimSpace(color)
	if c == "" {
		return 0, perrors.New(perrors.CIError, "job color must not be blank")
	}
	s, ok := colors[c]
	if !ok {
		return 0, perrors.New(perrors.CIError, fmt.Sprintf("unknown job color %q", c))
	}
	return s, nil
}

// IsFailure reports whether the last completed build failed.
func (s Status) IsFailure() bool {
	return s == Failure || s == FailureBuilding
}

// IsBuilding reports whether a build is in progress.
func (s Status) IsBuilding() bool {
	switch s {
	case FailureBuilding, UnstableBuilding, SuccessBuilding, GreyBuilding,
		DisabledBuilding, AbortedBuilding, NotBuiltBuilding:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case Failure:
		return "red"
	case FailureBuilding:
		return "red_anime"
	case Unstable:
		return "yellow"
	case UnstableBuilding:
		return "yellow_anime"
	case Success:
		return "blue"
	case SuccessBuilding:
		return "blue_anime"
	case Grey:
		return "grey"
	case GreyBuilding:
		return "grey_anime"
	case Disabled:
		return "disabled"
	case DisabledBuilding:
		return "disabled_anime"
	case Aborted:
		return "aborted"
	case AbortedBuilding:
		return "aborted_anime"
	case NotBuilt:
		return "notbuilt"
	case NotBuiltBuilding:
		return "notbuilt_anime"
	}
	return "unknown"
}

// Job is one entry of the Jenkins job list.
type Job struct {
	Name   string
	Status Status
}
