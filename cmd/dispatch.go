// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pterm/pterm"

	"plugctl/cli/internal/catalog"
	"plugctl/cli/internal/executor"
	"plugctl/cli/internal/keychain"
	"plugctl/cli/internal/logging"
	"plugctl/cli/internal/notify"
	"plugctl/cli/internal/session"
)

// newExecutor builds an executor from the loaded configuration and flags.
func newExecutor() *executor.Executor {
	sess := session.New(session.Options{Port: cfg.Device.Port, Timeout: cfg.Device.Timeout})
	opts := executor.Options{
		Verbose:   flagVerbose,
		Debug:     flagDebug,
		CheckJSON: cfg.ValidatePayload,
		Logger:    logger,
	}
	if !flagShowSecrets {
		opts.Redact = logging.Mask
	}
	return executor.New(catalog.Default(), sess, opts)
}

// newPublisher connects to the configured MQTT broker. Without a broker, or
// when the broker cannot be reached, outcomes are silently dropped.
func newPublisher(ctx context.Context) notify.Publisher {
	if cfg.MQTT.Broker == "" {
		return notify.Nop{}
	}
	password := ""
	if cfg.MQTT.Username != "" {
		if km, err := keychain.GetManager(); err == nil {
			if pw, err := km.LoadMQTTPassword(); err == nil {
				password = pw
			} else if !errors.Is(err, keychain.ErrNotFound) {
				logger.Warn().Err(err).Msg("reading mqtt password from keychain")
			}
		}
	}
	pub, err := notify.Connect(ctx, notify.Options{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: password,
		QoS:      cfg.MQTT.QoS,
		Retain:   cfg.MQTT.Retain,
		Topic:    cfg.MQTTTopic,
		Logger:   logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("mqtt publishing disabled")
		return notify.Nop{}
	}
	return pub
}

// finish publishes the outcome and reports it to the user. A failed outcome
// becomes errDispatchFailed so that the process exits non-zero.
func finish(ctx context.Context, o executor.Outcome, onSuccess func(executor.Outcome)) error {
	pub := newPublisher(ctx)
	defer pub.Close()
	if err := pub.Publish(ctx, o); err != nil {
		logger.Warn().Err(err).Msg("publishing outcome failed")
	}

	switch o.Status {
	case executor.SkippedDryRun:
		pterm.Info.Printf("%s%s not sent to %s\n", executor.DryRunPrefix, o.Command, o.Destination)
	case executor.Executed:
		if onSuccess != nil {
			onSuccess(o)
		}
	default:
		logging.PresentFailure(string(o.Command), o.Err)
		return fmt.Errorf("%w: %s", errDispatchFailed, o.Command)
	}
	return nil
}

// printResponse writes the plug's answer to stdout.
func printResponse(o executor.Outcome) {
	fmt.Println(prettyJSON(o.Response))
}
