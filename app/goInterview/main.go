package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/superfeelapi/goInterview/business/evaluator"
	"github.com/superfeelapi/goInterview/business/question"
	"github.com/superfeelapi/goInterview/business/session"
	"github.com/superfeelapi/goInterview/foundation/capture"
	"github.com/superfeelapi/goInterview/foundation/config"
	"github.com/superfeelapi/goInterview/foundation/external/emotion"
	"github.com/superfeelapi/goInterview/foundation/external/googlestt"
	"github.com/superfeelapi/goInterview/foundation/external/streamstt"
	"github.com/superfeelapi/goInterview/foundation/external/whisper"
	"github.com/superfeelapi/goInterview/foundation/logger"
	"github.com/superfeelapi/goInterview/foundation/pubsub"
	"github.com/superfeelapi/goInterview/foundation/resume"
	"github.com/superfeelapi/goInterview/foundation/state"
	"github.com/superfeelapi/goInterview/foundation/voice"
)

var (
	version   string
	buildTime string
)

func main() {
	// =================================================================================================================
	// Configuration

	godotenv.Load()

	cfg := struct {
		conf.Version
		Interview struct {
			ResumePath     string `conf:"default:resume.pdf"`
			ConfigFilePath string `conf:"noprint"`
			Rounds         int    `conf:"default:3"`
		}
		Speech struct {
			Backend         string `conf:"default:whisper"`
			WhisperEndpoint string `conf:"default:http://localhost:9090/transcribe,noprint"`
			PrivateKeyPath  string `conf:"noprint"`
			LanguageCode    string `conf:"default:es-ES"`
			WebsocketScheme string `conf:"default:ws"`
			WebsocketHost   string `conf:"default:localhost:8080"`
			WebsocketPath   string `conf:"default:/speech"`
			WebsocketApiKey string `conf:"noprint"`
			StreamLanguages string `conf:"default:es-ES"`
		}
		Emotion struct {
			ApiEndpoint string `conf:"default:http://localhost:5005/classify,noprint"`
			ApiKey      string `conf:"noprint"`
			Enabled     bool   `conf:"default:true"`
		}
		Capture struct {
			FFmpegPath  string `conf:"default:ffmpeg"`
			AudioDevice string `conf:"default:default"`
			VideoDevice string `conf:"default:/dev/video0"`
			FrameRate   int    `conf:"default:2"`
			SampleRate  int    `conf:"default:44100"`
		}
		Logger struct {
			LogDirectory string `conf:"default:/var/log/goInterview/,noprint"`
		}
	}{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	help, err := conf.Parse("INTERVIEW", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Application Logger

	sessionID := uuid.NewString()

	log, err := logger.New(cfg.Logger.LogDirectory, sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// =================================================================================================================
	// Interview Configuration

	interviewCfg := config.Default()
	if cfg.Interview.ConfigFilePath != "" {
		interviewCfg, err = config.Load(cfg.Interview.ConfigFilePath)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
			os.Exit(1)
		}
	}

	out, err := conf.String(&cfg)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
	}
	log.Infow("startup", "config", out)

	// =================================================================================================================
	// Resume Analysis

	// No skill list, no interview.
	skills, err := resume.Analyze(cfg.Interview.ResumePath, interviewCfg.ResumeSkills)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}
	log.Infow("startup", "resume", cfg.Interview.ResumePath, "skills", skills)

	// =================================================================================================================
	// Service State and Live Feedback

	svcState := state.NewState()
	broker := pubsub.NewBroker()

	emotionSub := pubsub.NewSubscriber(16)
	broker.Subscribe(pubsub.TopicEmotion, emotionSub)
	go func() {
		for data := range emotionSub.GetChannel() {
			fmt.Printf("[live] emotion: %v\n", data)
		}
	}()

	transcriptSub := pubsub.NewSubscriber(4)
	broker.Subscribe(pubsub.TopicTranscript, transcriptSub)
	go func() {
		for data := range transcriptSub.GetChannel() {
			fmt.Printf("[live] transcript: %v\n", data)
		}
	}()

	// =================================================================================================================
	// Speech2Text

	var transcriber evaluator.Transcriber

	switch cfg.Speech.Backend {
	case "whisper":
		endpoint := cfg.Speech.WhisperEndpoint
		transcriber = evaluator.TranscriberFunc(func(_ context.Context, wavData []byte) (evaluator.Transcript, error) {
			r, err := whisper.Transcribe(endpoint, wavData)
			if err != nil {
				return evaluator.Transcript{}, err
			}
			segments := make([]evaluator.Segment, 0, len(r.Segments))
			for _, s := range r.Segments {
				segments = append(segments, evaluator.Segment{Start: s.Start, End: s.End, Text: s.Text})
			}
			return evaluator.Transcript{Text: r.Text, LanguageCode: r.Language, Segments: segments}, nil
		})

	case "google":
		google, err := googlestt.New(context.Background(), cfg.Speech.PrivateKeyPath, cfg.Speech.LanguageCode, int32(cfg.Capture.SampleRate))
		if err != nil {
			log.Errorw("startup", "ERROR", err)
		} else {
			defer google.Close()
			transcriber = evaluator.TranscriberFunc(func(ctx context.Context, wavData []byte) (evaluator.Transcript, error) {
				text, language, err := google.Transcribe(ctx, wavData)
				if err != nil {
					return evaluator.Transcript{}, err
				}
				return evaluator.Transcript{Text: text, LanguageCode: language}, nil
			})
		}

	case "stream":
		stream, err := streamstt.Dial(cfg.Speech.WebsocketScheme, cfg.Speech.WebsocketHost, cfg.Speech.WebsocketPath,
			cfg.Speech.WebsocketApiKey, strings.Split(cfg.Speech.StreamLanguages, ","))
		if err != nil {
			log.Errorw("startup", "ERROR", err)
		} else {
			defer stream.Close()
			languageCode := cfg.Speech.LanguageCode
			transcriber = evaluator.TranscriberFunc(func(ctx context.Context, wavData []byte) (evaluator.Transcript, error) {
				text, err := stream.Transcribe(ctx, wavData)
				if err != nil {
					return evaluator.Transcript{}, err
				}
				return evaluator.Transcript{Text: text, LanguageCode: languageCode}, nil
			})
		}

	default:
		log.Errorw("startup", "ERROR", fmt.Errorf("unknown speech backend %q", cfg.Speech.Backend))
	}

	// =================================================================================================================
	// Emotion Classification

	var classifier evaluator.EmotionClassifier

	if cfg.Emotion.Enabled && cfg.Emotion.ApiEndpoint != "" {
		endpoint := cfg.Emotion.ApiEndpoint
		apiKey := cfg.Emotion.ApiKey
		classifier = evaluator.EmotionClassifierFunc(func(_ context.Context, frame []byte) (evaluator.FrameEmotion, error) {
			r, err := emotion.Classify(endpoint, apiKey, frame)
			if err != nil {
				return evaluator.FrameEmotion{}, err
			}
			return evaluator.FrameEmotion{Dominant: r.Dominant, Scores: r.Emotions}, nil
		})
	}

	// =================================================================================================================
	// Evaluator, Generator and Capture

	eval := evaluator.New(evaluator.Settings{
		Logger: log,
		State:  svcState,
		Broker: broker,

		Transcriber: transcriber,
		Voice: evaluator.VoiceExtractorFunc(func(wavData []byte) (evaluator.VoiceFeatures, error) {
			f, err := voice.Extract(wavData)
			if err != nil {
				return evaluator.VoiceFeatures{}, err
			}
			return evaluator.VoiceFeatures{Energy: f.Energy, Pitch: f.Pitch, Tempo: f.Tempo, Duration: f.Duration}, nil
		}),
		Emotion: classifier,

		MatchThreshold:   interviewCfg.MatchThreshold,
		FrameWorkers:     interviewCfg.FrameWorkers,
		FallbackLanguage: interviewCfg.FallbackLanguage,
	})

	generator := question.NewGenerator(question.Settings{
		Templates: interviewCfg.Templates,
		Scenarios: interviewCfg.Scenarios,
		Keywords:  interviewCfg.Keywords,
	})

	recorder := capture.New(capture.Config{
		Logger:      log,
		FFmpegPath:  cfg.Capture.FFmpegPath,
		AudioDevice: cfg.Capture.AudioDevice,
		VideoDevice: cfg.Capture.VideoDevice,
		FrameRate:   cfg.Capture.FrameRate,
		SampleRate:  cfg.Capture.SampleRate,
	})

	// =================================================================================================================
	// Interview Session

	s := session.New(session.Settings{
		Logger:    log,
		Evaluator: eval,
		Generator: generator,
		Capture: session.CaptureFunc(func(ctx context.Context, window time.Duration) (session.Stream, error) {
			stream, err := recorder.Open(ctx, window)
			if err != nil {
				return nil, err
			}
			return stream, nil
		}),
		Window: time.Duration(interviewCfg.WindowSeconds) * time.Second,
	})

	if err := s.Begin(skills); err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Answer Loop

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// One token per line typed; pressing Enter cuts the current answer
	// window short.
	stopKeys := make(chan struct{}, 1)
	go func() {
		stdin := bufio.NewReader(os.Stdin)
		for {
			if _, err := stdin.ReadString('\n'); err != nil {
				return
			}
			select {
			case stopKeys <- struct{}{}:
			default:
			}
		}
	}()

	for round := 1; round <= cfg.Interview.Rounds; round++ {
		q, ok := s.CurrentQuestion()
		if !ok {
			break
		}

		fmt.Printf("\nQuestion %d/%d [%s]: %s\n", round, cfg.Interview.Rounds, q.Category, q.Text)
		fmt.Println("Recording... press Enter to finish early.")

		assessment, err := s.RunAnswer(ctx, stopKeys)
		if err != nil {
			log.Errorw("interview: answer", "round", round, "ERROR", err)
			break
		}

		fmt.Printf("Transcript: %s\n", assessment.Transcript.Text)
		fmt.Printf("Dominant emotion: %s | skills matched: %.0f%% | completeness: %s\n",
			assessment.Emotion.Dominant, assessment.ContentMatch.MatchPercentage, assessment.AnswerQuality.Completeness)

		if ctx.Err() != nil {
			log.Infow("interview: interrupted", "round", round)
			break
		}
	}

	// =================================================================================================================
	// Session Report

	report, err := json.MarshalIndent(s.History(), "", "  ")
	if err != nil {
		log.Errorw("report", "ERROR", err)
	} else {
		reportPath := filepath.Join(cfg.Logger.LogDirectory, sessionID+".report.json")
		if err := os.WriteFile(reportPath, report, 0644); err != nil {
			log.Errorw("report", "ERROR", err)
		} else {
			log.Infow("report", "path", reportPath, "answers", len(s.History()))
			fmt.Printf("\nSession report written to %s\n", reportPath)
		}
	}

	broker.UnSubscribe(pubsub.TopicEmotion, emotionSub)
	broker.UnSubscribe(pubsub.TopicTranscript, transcriptSub)

	log.Infow("shutdown", "status", "shutdown complete")
}
