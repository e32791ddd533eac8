// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ci reads build states from a Jenkins server and decides whether
// the warning light should be on.
package ci

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	perrors "plugctl/cli/internal/errors"
)

// Options locate the Jenkins server.
type Options struct {
	Host     string
	Port     int
	Scheme   string
	User     string
	Password string
	// UserAgent, if set, is sent with every request.
	UserAgent string
	// Timeout bounds the whole request; zero means 10 seconds.
	Timeout time.Duration
	// HTTPClient replaces the default client, e.g. in tests.
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// Redact is applied to the response body before it is debug-logged.
	Redact func(string) string
}

// Client queries the Jenkins XML API.
type Client struct {
	url    string
	user   string
	pass   string
	agent  string
	client *http.Client
	log    zerolog.Logger
	redact func(string) string
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return nil, perrors.New(perrors.ConfigError, "jenkins host is not set (use --jenkins-host or jenkins.host)")
	}
	if opts.Scheme == "" {
		opts.Scheme = "http"
	}
	if opts.Scheme != "http" && opts.Scheme != "https" {
		return nil, perrors.New(perrors.ConfigError, fmt.Sprintf("jenkins scheme %q must be http or https", opts.Scheme))
	}
	if opts.Port == 0 {
		opts.Port = 80
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Redact == nil {
		opts.Redact = func(s string) string { return s }
	}
	return &Client{
		url:    opts.Scheme + "://" + net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)) + "/api/xml",
		user:   opts.User,
		pass:   opts.Password,
		agent:  opts.UserAgent,
		client: hc,
		log:    opts.Logger,
		redact: opts.Redact,
	}, nil
}

// URL is the endpoint Jobs fetches.
func (c *Client) URL() string { return c.url }

type hudson struct {
	XMLName xml.Name `xml:"hudson"`
	Jobs    []struct {
		Name  string `xml:"name"`
		Color string `xml:"color"`
	} `xml:"job"`
}

// Jobs returns every job visible to the configured user. Credentials, when
// set, are sent with the first request instead of waiting for a challenge.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, perrors.Wrap(perrors.CIError, "build request", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	if c.agent != "" {
		req.Header.Set("User-Agent", c.agent)
	}
	c.log.Debug().Str("url", c.url).Bool("auth", c.user != "").Msg("querying jenkins")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, perrors.Wrap(perrors.CIError, "query jenkins", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perrors.Wrap(perrors.CIError, "read jenkins response", err)
	}
	c.log.Debug().Msgf("GOT: %s", c.redact(string(body)))
	if resp.StatusCode != http.StatusOK {
		return nil, perrors.New(perrors.CIError, "jenkins returned "+resp.Status)
	}

	var doc hudson
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, perrors.Wrap(perrors.CIError, "parse jenkins job list", err)
	}
	jobs := make([]Job, 0, len(doc.Jobs))
	for _, j := range doc.Jobs {
		st, err := ParseStatus(j.Color)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", j.Name, err)
		}
		jobs = append(jobs, Job{Name: j.Name, Status: st})
	}
	c.log.Debug().Int("jobs", len(jobs)).Msg("jenkins job list parsed")
	return jobs, nil
}
