// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "message only",
			err:  New(UnknownCommand, "NOT_A_COMMAND"),
			want: "unknown_command: NOT_A_COMMAND",
		},
		{
			name: "wrapped cause",
			err:  Wrap(ConnectionError, "read response", io.ErrUnexpectedEOF),
			want: "connection_error: read response: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := Wrap(ProtocolError, "short frame", nil)
	wrapped := fmt.Errorf("dispatch GET_SYSTEM_INFO: %w", base)

	if !IsKind(wrapped, ProtocolError) {
		t.Fatalf("IsKind(%v, ProtocolError) = false", wrapped)
	}
	if IsKind(wrapped, ConnectionError) {
		t.Fatalf("IsKind(%v, ConnectionError) = true", wrapped)
	}
	if KindOf(stderrors.New("plain")) != "" {
		t.Fatal("plain error should have no kind")
	}
	if IsKind(nil, ProtocolError) {
		t.Fatal("nil error should have no kind")
	}
}

func TestUnwrap(t *testing.T) {
	err := Wrap(ConnectionError, "dial", io.EOF)
	if !stderrors.Is(err, io.EOF) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
}
