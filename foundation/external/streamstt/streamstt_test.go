package streamstt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/superfeelapi/goInterview/foundation/external/streamstt"
)

func TestTranscribe(t *testing.T) {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrading: %v", err)
			return
		}
		defer conn.Close()

		// Registration message.
		var register struct {
			LanguageCode []string
		}
		if err := conn.ReadJSON(&register); err != nil {
			t.Errorf("reading register: %v", err)
			return
		}
		if len(register.LanguageCode) != 1 || register.LanguageCode[0] != "en-US" {
			t.Errorf("unexpected registration: %+v", register)
		}

		// Audio payload.
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("reading audio: %v", err)
			return
		}
		if messageType != websocket.BinaryMessage || len(payload) == 0 {
			t.Errorf("expected binary audio message")
		}

		conn.WriteJSON(streamstt.Result{Transcription: "i led", IsFinal: false})
		conn.WriteJSON(streamstt.Result{Transcription: "i led a team", IsFinal: true})
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")

	stream, err := streamstt.Dial("ws", host, "/stt", "key", []string{"en-US"})
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	text, err := stream.Transcribe(context.Background(), []byte("fake-wav"))
	if err != nil {
		t.Fatal(err)
	}

	if text != "i led a team" {
		t.Fatalf("expected final transcription, got %q", text)
	}
}
