// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores plugctl secrets in the OS credential store: the
// Jenkins password used by the CI monitor and the MQTT broker password used
// when publishing outcomes.
//
// On macOS the `security` tool is tried first; everywhere else the
// 99designs/keyring library picks a native backend. There is no plaintext
// file fallback.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

var (
	globalManager *Manager
	mu            sync.Mutex
)

// ErrNotFound is returned when no secret is stored under the requested key.
var ErrNotFound = errors.New("secret not found in keychain")

// ServiceName identifies our keychain namespace.
const ServiceName = "plugctl"

// Keys used for storing secrets in the OS keychain.
const (
	KeyJenkinsPassword = "jenkins_password"
	KeyMQTTPassword    = "mqtt_password"
)

// store is the minimal surface both backends provide.
type store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides thread-safe access to the stored secrets.
type Manager struct {
	mu    sync.RWMutex
	store store
}

// NewManager opens the platform credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{store: backend}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewWithRing(ring), nil
}

// NewWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring
// in tests.
func NewWithRing(ring keyring.Keyring) *Manager {
	return &Manager{store: ringStore{ring: ring}}
}

// GetManager returns the process-wide manager, creating it on first use.
// A failed initialisation is retried on the next call.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass covers macOS setups where the Keychain refuses access.
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: "login",
	})
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

func (m *Manager) set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Set(key, value)
}

func (m *Manager) get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, err := m.store.Get(key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// SaveJenkinsPassword stores the password for the configured Jenkins user.
func (m *Manager) SaveJenkinsPassword(password string) error {
	return m.set(KeyJenkinsPassword, password)
}

// LoadJenkinsPassword returns ErrNotFound when `plugctl ci login` was never run.
func (m *Manager) LoadJenkinsPassword() (string, error) {
	return m.get(KeyJenkinsPassword)
}

// SaveMQTTPassword stores the broker password.
func (m *Manager) SaveMQTTPassword(password string) error {
	return m.set(KeyMQTTPassword, password)
}

// LoadMQTTPassword returns ErrNotFound when no broker password is stored.
func (m *Manager) LoadMQTTPassword() (string, error) {
	return m.get(KeyMQTTPassword)
}

// ClearAll removes every plugctl secret. Missing entries are not an error.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, key := range []string{KeyJenkinsPassword, KeyMQTTPassword} {
		if err := m.store.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ringStore adapts keyring.Keyring to store.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
