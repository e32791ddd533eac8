// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads CLI configuration from a YAML file in the XDG config
// dir, overlaid with PLUGCTL_* environment variables. Only non-secret
// settings live here; passwords go to the OS keychain.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	perrors "plugctl/cli/internal/errors"
	"plugctl/cli/internal/protocol"
	"plugctl/cli/internal/xdg"
)

// EnvPrefix is prepended to every environment override, e.g.
// PLUGCTL_DEVICE_TIMEOUT=3s.
const EnvPrefix = "PLUGCTL"

// Config holds the resolved settings.
type Config struct {
	Device          DeviceConfig
	ValidatePayload bool
	Jenkins         JenkinsConfig
	MQTT            MQTTConfig
	Gateway         GatewayConfig
	LogFile         string

	// File is the config file that was read, or would be written by Save.
	File string
}

// DeviceConfig controls the plug session.
type DeviceConfig struct {
	Port    int
	Timeout time.Duration
}

// JenkinsConfig locates the CI server. The password is kept in the keychain.
type JenkinsConfig struct {
	Host        string
	Port        int
	Scheme      string
	User        string
	IgnoredJobs []string
}

// MQTTConfig enables outcome publishing when Broker is set.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	QoS      byte
	Retain   bool
}

// GatewayConfig holds the listen addresses used by `plugctl serve`.
type GatewayConfig struct {
	GRPCAddr string
	HTTPAddr string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("device.port", protocol.DefaultPort)
	v.SetDefault("device.timeout", 10*time.Second)
	v.SetDefault("validate_payload", true)
	v.SetDefault("jenkins.port", 80)
	v.SetDefault("jenkins.scheme", "http")
	v.SetDefault("jenkins.ignored_jobs", []string{})
	v.SetDefault("mqtt.topic", "plugctl/%s/state")
	v.SetDefault("mqtt.client_id", "plugctl")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.retain", false)
	v.SetDefault("gateway.grpc_addr", "127.0.0.1:7443")
	v.SetDefault("gateway.http_addr", "127.0.0.1:8099")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path, or from the default location when path
// is empty. A missing default file yields defaults; a missing explicit file
// is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := xdg.ConfigFile()
		if err != nil {
			return Config{}, perrors.Wrap(perrors.ConfigError, "locate config dir", err)
		}
		path = p
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, perrors.Wrap(perrors.ConfigError, "read config "+path, err)
		}
	}

	c := fromViper(v)
	c.File = path
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Device: DeviceConfig{
			Port:    v.GetInt("device.port"),
			Timeout: v.GetDuration("device.timeout"),
		},
		ValidatePayload: v.GetBool("validate_payload"),
		Jenkins: JenkinsConfig{
			Host:        v.GetString("jenkins.host"),
			Port:        v.GetInt("jenkins.port"),
			Scheme:      v.GetString("jenkins.scheme"),
			User:        v.GetString("jenkins.user"),
			IgnoredJobs: v.GetStringSlice("jenkins.ignored_jobs"),
		},
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt.broker"),
			Topic:    v.GetString("mqtt.topic"),
			ClientID: v.GetString("mqtt.client_id"),
			Username: v.GetString("mqtt.username"),
			QoS:      byte(v.GetUint("mqtt.qos")),
			Retain:   v.GetBool("mqtt.retain"),
		},
		Gateway: GatewayConfig{
			GRPCAddr: v.GetString("gateway.grpc_addr"),
			HTTPAddr: v.GetString("gateway.http_addr"),
		},
		LogFile: v.GetString("log.file"),
	}
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	switch {
	case c.Device.Port < 1 || c.Device.Port > 65535:
		return perrors.New(perrors.ConfigError, fmt.Sprintf("device.port %d out of range", c.Device.Port))
	case c.Device.Timeout < 0:
		return perrors.New(perrors.ConfigError, "device.timeout must not be negative")
	case c.Jenkins.Port < 1 || c.Jenkins.Port > 65535:
		return perrors.New(perrors.ConfigError, fmt.Sprintf("jenkins.port %d out of range", c.Jenkins.Port))
	case c.Jenkins.Scheme != "http" && c.Jenkins.Scheme != "https":
		return perrors.New(perrors.ConfigError, fmt.Sprintf("jenkins.scheme %q must be http or https", c.Jenkins.Scheme))
	case c.MQTT.QoS > 2:
		return perrors.New(perrors.ConfigError, fmt.Sprintf("mqtt.qos %d must be 0, 1 or 2", c.MQTT.QoS))
	}
	return nil
}

// MQTTTopic returns the topic for outcomes of host. A %s in the configured
// topic is replaced by the host.
func (c Config) MQTTTopic(host string) string {
	if strings.Contains(c.MQTT.Topic, "%s") {
		return fmt.Sprintf(c.MQTT.Topic, host)
	}
	return c.MQTT.Topic
}

// SaveJenkins writes the Jenkins location into the config file, keeping any
// other settings already there.
func SaveJenkins(c Config) error {
	if c.File == "" {
		return perrors.New(perrors.ConfigError, "no config file to write")
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(c.File)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return perrors.Wrap(perrors.ConfigError, "read config "+c.File, err)
	}
	v.Set("jenkins.host", c.Jenkins.Host)
	v.Set("jenkins.port", c.Jenkins.Port)
	v.Set("jenkins.scheme", c.Jenkins.Scheme)
	v.Set("jenkins.user", c.Jenkins.User)
	if err := v.WriteConfigAs(c.File); err != nil {
		return perrors.Wrap(perrors.ConfigError, "write config "+c.File, err)
	}
	return nil
}
