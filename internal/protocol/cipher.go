// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package protocol implements the framing and obfuscation used by HS100/HS110
// smart plugs on TCP port 9999.
//
// A frame is four zero bytes followed by the payload run through an autokey XOR
// cipher. The cipher is not a security measure; the firmware simply refuses
// anything else.
package protocol

import (
	perrors "plugctl/cli/internal/errors"
)

const (
	// InitialKey seeds the autokey cipher for every encrypt or decrypt call.
	InitialKey byte = 171
	// HeaderSize is the length of the zero sentinel in front of every frame.
	HeaderSize = 4
	// DefaultPort is the TCP port the plug firmware listens on.
	DefaultPort = 9999
)

// Encrypt frames plaintext for the wire. The result is HeaderSize zero bytes
// followed by exactly len(plaintext) cipher bytes.
func Encrypt(plaintext []byte) []byte {
	out := make([]byte, HeaderSize+len(plaintext))
	key := InitialKey
	for i, c := range plaintext {
		b := key ^ c
		out[HeaderSize+i] = b
		key = b
	}
	return out
}

// Decrypt strips the header from frame and returns the plaintext.
// The header content is not inspected. Frames shorter than HeaderSize yield a
// ProtocolError.
func Decrypt(frame []byte) ([]byte, error) {
	if len(frame) < HeaderSize {
		return nil, perrors.New(perrors.ProtocolError, "response frame shorter than header")
	}
	body := frame[HeaderSize:]
	out := make([]byte, len(body))
	key := InitialKey
	for i, b := range body {
		out[i] = key ^ b
		// the next key is the cipher byte just consumed, mirroring Encrypt
		key = b
	}
	return out, nil
}
