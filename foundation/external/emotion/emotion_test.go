package emotion_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/superfeelapi/goInterview/foundation/external/emotion"
)

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "secret" {
			t.Errorf("expected api-key header, got %q", got)
		}
		if _, _, err := r.FormFile("frame"); err != nil {
			t.Errorf("expected frame file part: %v", err)
		}

		json.NewEncoder(w).Encode(emotion.Result{
			Dominant: "happy",
			Emotions: map[string]float64{"happy": 87.5, "neutral": 12.5},
		})
	}))
	defer srv.Close()

	r, err := emotion.Classify(srv.URL, "secret", []byte{0xff, 0xd8, 0xff, 0xd9})
	if err != nil {
		t.Fatal(err)
	}

	if r.Dominant != "happy" {
		t.Fatalf("unexpected dominant emotion: %q", r.Dominant)
	}
	if r.Emotions["happy"] != 87.5 {
		t.Fatalf("unexpected distribution: %+v", r.Emotions)
	}
}

func TestClassifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := emotion.Classify(srv.URL, "", []byte("frame")); err == nil {
		t.Fatal("expected error on 500")
	}
}
