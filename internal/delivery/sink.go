// Package delivery sends finished exports to an optional remote sink and
// always keeps a local copy.
package delivery

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Payload is an encoded export ready for transmission.
type Payload struct {
	RunID    string
	Filename string
	MIMEType string
	Data     []byte
}

func (p Payload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// Sink is a remote destination. Send makes exactly one attempt.
type Sink interface {
	Name() string
	Send(ctx context.Context, p Payload) error
}

// TransmissionError reports a failed remote attempt.
type TransmissionError struct {
	Sink   string
	Status int
	Err    error
}

func (e *TransmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("delivery: %s: http %d", e.Sink, e.Status)
	}
	return fmt.Sprintf("delivery: %s: %v", e.Sink, e.Err)
}

func (e *TransmissionError) Unwrap() error { return e.Err }
