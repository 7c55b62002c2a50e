// Package whisper calls a local faster-whisper transcription server.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	apiTimeout = 60
)

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

func Transcribe(apiEndpoint string, wavData []byte) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	payload := bytes.Buffer{}
	writer := multipart.NewWriter(&payload)

	part, err := writer.CreateFormFile("audio", "answer.wav")
	if err != nil {
		return Result{}, err
	}

	if _, err := part.Write(wavData); err != nil {
		return Result{}, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, apiEndpoint, &payload)
	if err != nil {
		return Result{}, err
	}

	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	if resp.StatusCode == http.StatusInternalServerError {
		return Result{}, errors.New("internal server error 500: " + string(body))
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, errors.New(string(body))
	}

	var r Result
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{}, err
	}

	return r, nil
}
