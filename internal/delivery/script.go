package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// ScriptSink posts the workbook as base64 JSON to a web script endpoint.
type ScriptSink struct {
	url   string
	token string
	http  *http.Client
}

// NewScriptSink builds a sink for url. A zero timeout leaves the transport
// default in place.
func NewScriptSink(url, token string, timeout time.Duration) (*ScriptSink, error) {
	if url == "" {
		return nil, errors.New("delivery: script url required")
	}
	client := http.DefaultClient
	if timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	return &ScriptSink{url: url, token: token, http: client}, nil
}

func (s *ScriptSink) Name() string { return "script" }

type scriptRequest struct {
	Filename string `json:"filename"`
	FileData string `json:"fileData"`
	MIMEType string `json:"mimeType"`
}

func (s *ScriptSink) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(scriptRequest{Filename: p.Filename, FileData: p.Base64(), MIMEType: p.MIMEType})
	if err != nil {
		return &TransmissionError{Sink: s.Name(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &TransmissionError{Sink: s.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return &TransmissionError{Sink: s.Name(), Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransmissionError{Sink: s.Name(), Status: resp.StatusCode}
	}
	return nil
}
