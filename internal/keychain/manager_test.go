// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestManagerRoundTrip(t *testing.T) {
	m := NewWithRing(keyring.NewArrayKeyring(nil))

	if _, err := m.LoadJenkinsPassword(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadJenkinsPassword() on empty ring error = %v, want ErrNotFound", err)
	}

	if err := m.SaveJenkinsPassword("s3cret"); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveMQTTPassword("broker-pw"); err != nil {
		t.Fatal(err)
	}

	if got, err := m.LoadJenkinsPassword(); err != nil || got != "s3cret" {
		t.Errorf("LoadJenkinsPassword() = %q, %v", got, err)
	}
	if got, err := m.LoadMQTTPassword(); err != nil || got != "broker-pw" {
		t.Errorf("LoadMQTTPassword() = %q, %v", got, err)
	}

	if err := m.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if _, err := m.LoadMQTTPassword(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadMQTTPassword() after ClearAll error = %v", err)
	}
	if err := m.ClearAll(); err != nil {
		t.Errorf("second ClearAll() error = %v", err)
	}
}

func TestEmptySecretCountsAsMissing(t *testing.T) {
	m := NewWithRing(keyring.NewArrayKeyring([]keyring.Item{{Key: KeyJenkinsPassword, Data: nil}}))
	if _, err := m.LoadJenkinsPassword(); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
