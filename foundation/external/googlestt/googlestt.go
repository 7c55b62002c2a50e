// Package googlestt transcribes a recorded answer with Google Cloud
// Speech-to-Text synchronous recognition.
package googlestt

import (
	"context"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

type Service struct {
	client       *speech.Client
	languageCode string
	sampleRateHz int32
}

func New(ctx context.Context, privateKeyPath string, languageCode string, sampleRateHz int32) (*Service, error) {
	var opts []option.ClientOption
	if privateKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(privateKeyPath))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Service{
		client:       client,
		languageCode: languageCode,
		sampleRateHz: sampleRateHz,
	}, nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

// Transcribe runs synchronous recognition over the full WAV payload and
// returns the best alternative per result, concatenated in order.
func (s *Service) Transcribe(ctx context.Context, wavData []byte) (string, string, error) {
	resp, err := s.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            s.sampleRateHz,
			LanguageCode:               s.languageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: wavData},
		},
	})
	if err != nil {
		return "", "", err
	}

	var text string
	language := s.languageCode
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text != "" {
			text += " "
		}
		text += result.Alternatives[0].Transcript
		if result.LanguageCode != "" {
			language = result.LanguageCode
		}
	}

	return text, language, nil
}
