// Package evaluator turns one recorded answer into a multi-signal
// assessment. Every analyzer failure degrades to that modality's
// documented neutral value; Evaluate never fails outward.
package evaluator

import (
	"context"
	"time"

	"github.com/superfeelapi/goInterview/business/question"
	"github.com/superfeelapi/goInterview/foundation/pubsub"
	"github.com/superfeelapi/goInterview/foundation/state"
	"go.uber.org/zap"
)

// Level cut points carried over from the voice analyzer's calibration.
const (
	energyHighThreshold = 0.1
	tempoFastThreshold  = 120.0
	pitchHighThreshold  = 200.0
)

const (
	defaultMatchThreshold   = 70
	defaultFrameWorkers     = 4
	defaultFallbackLanguage = "es"
)

type Settings struct {
	Logger *zap.SugaredLogger
	State  *state.State
	Broker *pubsub.Broker

	Transcriber Transcriber
	Voice       VoiceExtractor
	Emotion     EmotionClassifier

	MatchThreshold   int
	FrameWorkers     int
	FallbackLanguage string
}

type Evaluator struct {
	logger *zap.SugaredLogger
	state  *state.State
	broker *pubsub.Broker

	transcriber Transcriber
	voice       VoiceExtractor
	emotion     EmotionClassifier

	matchThreshold   int
	frameWorkers     int
	fallbackLanguage string
}

func New(s Settings) *Evaluator {
	if s.State == nil {
		s.State = state.NewState()
	}
	if s.MatchThreshold <= 0 {
		s.MatchThreshold = defaultMatchThreshold
	}
	if s.FrameWorkers <= 0 {
		s.FrameWorkers = defaultFrameWorkers
	}
	if s.FallbackLanguage == "" {
		s.FallbackLanguage = defaultFallbackLanguage
	}

	// A collaborator missing at startup disables its modality for the
	// whole session instead of failing on every answer.
	if s.Transcriber == nil {
		s.State.Set(state.Transcriber, false)
	}
	if s.Voice == nil {
		s.State.Set(state.VoiceFeatures, false)
	}
	if s.Emotion == nil {
		s.State.Set(state.EmotionClassifier, false)
	}

	return &Evaluator{
		logger:           s.Logger,
		state:            s.State,
		broker:           s.Broker,
		transcriber:      s.Transcriber,
		voice:            s.Voice,
		emotion:          s.Emotion,
		matchThreshold:   s.MatchThreshold,
		frameWorkers:     s.FrameWorkers,
		fallbackLanguage: s.FallbackLanguage,
	}
}

// Evaluate fans out to the analyzers and aggregates their signals.
// Transcription gates the text-dependent signals; voice and emotion run
// alongside it. Each analyzer gets exactly one attempt. The inputs are
// never mutated.
func (e *Evaluator) Evaluate(ctx context.Context, audio []byte, frames [][]byte, q question.Question, skills SkillSet) ResponseAssessment {
	e.logger.Infow("evaluator: evaluate: started", "audioBytes", len(audio), "frames", len(frames), "skills", len(skills))
	defer e.logger.Infow("evaluator: evaluate: completed")

	transcriptCh := make(chan TranscriptSignal, 1)
	voiceCh := make(chan VoiceSignal, 1)
	emotionCh := make(chan EmotionSignal, 1)

	go func() {
		transcriptCh <- e.transcribe(ctx, audio)
	}()
	go func() {
		voiceCh <- e.voiceLevels(audio)
	}()
	go func() {
		emotionCh <- e.classifyFrames(ctx, frames)
	}()

	transcript := <-transcriptCh
	content := e.matchContent(skills, transcript.Text)
	quality := evaluateAnswer(skills, transcript.Text)

	voice := <-voiceCh
	emotion := <-emotionCh

	e.publish(pubsub.TopicTranscript, transcript.Text)

	return ResponseAssessment{
		Question:       q,
		SkillsSnapshot: skills,
		Transcript:     transcript,
		Voice:          voice,
		Emotion:        emotion,
		ContentMatch:   content,
		AnswerQuality:  quality,
		CreatedAt:      time.Now(),
	}
}

func (e *Evaluator) transcribe(ctx context.Context, audio []byte) TranscriptSignal {
	fallback := TranscriptSignal{
		Text:         "",
		LanguageCode: e.fallbackLanguage,
		Segments:     []Segment{},
	}

	if len(audio) == 0 {
		e.logger.Infow("evaluator: transcribe: no audio recorded")
		return fallback
	}
	if !e.state.Get(state.Transcriber) {
		e.logger.Infow("evaluator: transcribe: transcriber disabled")
		return fallback
	}

	transcript, err := e.transcriber.Transcribe(ctx, audio)
	if err != nil {
		e.logger.Errorw("evaluator: transcribe", "ERROR", err)
		return fallback
	}

	languageCode := transcript.LanguageCode
	if languageCode == "" {
		languageCode = e.fallbackLanguage
	}
	segments := transcript.Segments
	if segments == nil {
		segments = []Segment{}
	}

	return TranscriptSignal{
		Text:         transcript.Text,
		LanguageCode: languageCode,
		Segments:     segments,
	}
}

func (e *Evaluator) voiceLevels(audio []byte) VoiceSignal {
	if len(audio) == 0 {
		e.logger.Infow("evaluator: voiceLevels: no audio recorded")
		return VoiceSignal{}
	}
	if !e.state.Get(state.VoiceFeatures) {
		e.logger.Infow("evaluator: voiceLevels: voice analysis disabled")
		return VoiceSignal{}
	}

	features, err := e.voice.Extract(audio)
	if err != nil {
		e.logger.Errorw("evaluator: voiceLevels", "ERROR", err)
		return VoiceSignal{}
	}

	signal := VoiceSignal{
		Energy:          LevelLow,
		Tempo:           LevelSlow,
		Pitch:           LevelLow,
		DurationSeconds: features.Duration,
	}
	if features.Energy > energyHighThreshold {
		signal.Energy = LevelHigh
	}
	if features.Tempo > tempoFastThreshold {
		signal.Tempo = LevelFast
	}
	if features.Pitch > pitchHighThreshold {
		signal.Pitch = LevelHigh
	}
	return signal
}

// publish sends live feedback to the presentation side, if anyone wired
// a broker in. Delivery problems are diagnostics, never failures.
func (e *Evaluator) publish(topic string, data any) {
	if e.broker == nil {
		return
	}
	go func() {
		if err := e.broker.Publish(topic, data); err != nil {
			e.logger.Errorw("evaluator: publish", "topic", topic, "ERROR", err)
		}
	}()
}
