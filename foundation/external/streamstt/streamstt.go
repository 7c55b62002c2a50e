// Package streamstt talks to a websocket speech-to-text server: audio
// goes out as one binary message, interim and final results come back
// as JSON.
package streamstt

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultTimeout = 60 * time.Second
)

type Result struct {
	Transcription string `json:"transcription"`
	IsFinal       bool   `json:"is_final"`
}

type Stream struct {
	conn *websocket.Conn
}

// Dial connects to the server and registers the expected languages.
func Dial(scheme string, host string, path string, apiKey string, languageCodes []string) (*Stream, error) {
	u := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), http.Header{"api-key": []string{apiKey}})
	if err != nil {
		return nil, fmt.Errorf("streamstt: dial %s: %w", u.String(), err)
	}

	registerData := struct {
		LanguageCode []string
	}{
		LanguageCode: languageCodes,
	}

	if err := conn.WriteJSON(registerData); err != nil {
		conn.Close()
		return nil, fmt.Errorf("streamstt: register: %w", err)
	}

	return &Stream{conn: conn}, nil
}

// Transcribe sends the WAV payload and waits for the final result,
// discarding interim transcriptions along the way.
func (s *Stream) Transcribe(ctx context.Context, wavData []byte) (string, error) {
	deadline := time.Now().Add(defaultTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	s.conn.SetWriteDeadline(deadline)
	s.conn.SetReadDeadline(deadline)

	if err := s.conn.WriteMessage(websocket.BinaryMessage, wavData); err != nil {
		return "", fmt.Errorf("streamstt: conn.WriteMessage: %w", err)
	}

	for {
		var result Result
		if err := s.conn.ReadJSON(&result); err != nil {
			return "", fmt.Errorf("streamstt: conn.ReadJSON: %w", err)
		}

		if result.IsFinal {
			return result.Transcription, nil
		}
	}
}

func (s *Stream) Close() error {
	return s.conn.Close()
}
