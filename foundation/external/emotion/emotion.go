// Package emotion calls the facial emotion classification service with a
// single JPEG frame and returns its emotion distribution.
package emotion

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
	apiTimeout = 15
)

type Result struct {
	Dominant string             `json:"dominant_emotion"`
	Emotions map[string]float64 `json:"emotions"`
}

func Classify(apiEndpoint string, apiKey string, frame []byte) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), apiTimeout*time.Second)
	defer cancel()

	payload := bytes.Buffer{}
	writer := multipart.NewWriter(&payload)

	part, err := writer.CreateFormFile("frame", "frame.jpg")
	if err != nil {
		return Result{}, err
	}

	if _, err := part.Write(frame); err != nil {
		return Result{}, err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, apiEndpoint, &payload)
	if err != nil {
		return Result{}, err
	}

	req = req.WithContext(ctx)
	req.Header.Add("api-key", apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		return Result{}, errors.New("internal server error 500")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
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
