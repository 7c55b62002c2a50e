// Package session drives one candidate sitting through the
// question -> record -> evaluate -> next question loop. The session
// value owns all state; there are no package globals.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/superfeelapi/goInterview/business/evaluator"
	"github.com/superfeelapi/goInterview/business/question"
	"go.uber.org/zap"
)

type Phase int

const (
	AwaitingSkills Phase = iota
	HasQuestion
	Recording
	Evaluating
)

func (p Phase) String() string {
	switch p {
	case AwaitingSkills:
		return "awaiting-skills"
	case HasQuestion:
		return "has-question"
	case Recording:
		return "recording"
	case Evaluating:
		return "evaluating"
	}
	return "unknown"
}

// Stream is one open recording window. Close releases the underlying
// devices and must be safe to call at any time, any number of times.
type Stream interface {
	Frames() <-chan []byte
	Audio() ([]byte, error)
	Close() error
}

// Capture opens the audio+video capture channel for one answer window.
type Capture interface {
	Open(ctx context.Context, window time.Duration) (Stream, error)
}

type CaptureFunc func(ctx context.Context, window time.Duration) (Stream, error)

func (f CaptureFunc) Open(ctx context.Context, window time.Duration) (Stream, error) {
	return f(ctx, window)
}

type Settings struct {
	Logger    *zap.SugaredLogger
	Evaluator *evaluator.Evaluator
	Generator *question.Generator
	Capture   Capture
	Window    time.Duration
}

type Session struct {
	ID string

	logger    *zap.SugaredLogger
	eval      *evaluator.Evaluator
	generator *question.Generator
	capture   Capture
	window    time.Duration

	skills          evaluator.SkillSet
	current         *question.Question
	history         []evaluator.ResponseAssessment
	phase           Phase
	recordingActive bool
}

func New(s Settings) *Session {
	if s.Window <= 0 {
		s.Window = 30 * time.Second
	}

	return &Session{
		ID:        uuid.NewString(),
		logger:    s.Logger,
		eval:      s.Evaluator,
		generator: s.Generator,
		capture:   s.Capture,
		window:    s.Window,
	}
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) RecordingActive() bool {
	return s.recordingActive
}

func (s *Session) Skills() evaluator.SkillSet {
	return append(evaluator.SkillSet(nil), s.skills...)
}

func (s *Session) CurrentQuestion() (question.Question, bool) {
	if s.current == nil {
		return question.Question{}, false
	}
	return *s.current, true
}

// History returns the accumulated assessments. The slice is copied;
// history is append-only and past entries are never rewritten.
func (s *Session) History() []evaluator.ResponseAssessment {
	return append([]evaluator.ResponseAssessment(nil), s.history...)
}

// Begin moves the session out of AwaitingSkills once the resume
// analysis produced a non-empty skill list, and asks the generator for
// the first question.
func (s *Session) Begin(rawSkills []string) error {
	if s.phase != AwaitingSkills {
		return fmt.Errorf("session: already started (phase %s)", s.phase)
	}

	skills := evaluator.NewSkillSet(rawSkills)
	if len(skills) == 0 {
		return fmt.Errorf("session: cannot start without skills")
	}

	q, err := s.generator.Generate(skills)
	if err != nil {
		return fmt.Errorf("session: generating first question: %w", err)
	}

	s.skills = skills
	s.current = &q
	s.phase = HasQuestion

	s.logger.Infow("session: begin", "id", s.ID, "skills", len(skills), "question", q.Text)
	return nil
}

// RunAnswer records one answer window and evaluates it. A stop signal
// or context cancellation cuts the window short; whatever was captured
// is evaluated as-is. The assessment is appended to history and the
// next question is pulled before returning.
func (s *Session) RunAnswer(ctx context.Context, stop <-chan struct{}) (evaluator.ResponseAssessment, error) {
	if s.phase != HasQuestion || s.current == nil {
		return evaluator.ResponseAssessment{}, fmt.Errorf("session: no question pending (phase %s)", s.phase)
	}

	asked := *s.current

	// Skills in force when recording starts; later edits to the
	// upstream set must not leak into this assessment.
	snapshot := append(evaluator.SkillSet(nil), s.skills...)

	audio, frames := s.record(ctx, stop)

	s.phase = Evaluating
	assessment := s.eval.Evaluate(ctx, audio, frames, asked, snapshot)
	s.history = append(s.history, assessment)

	if next, err := s.generator.Generate(snapshot); err != nil {
		s.logger.Errorw("session: next question", "ERROR", err)
	} else {
		s.current = &next
	}
	s.phase = HasQuestion

	return assessment, nil
}

// record owns the capture channel for one window. The stream is closed
// on every exit path so the devices are never leaked, and it is closed
// before evaluation starts so capture and evaluation stay strictly
// sequential.
func (s *Session) record(ctx context.Context, stop <-chan struct{}) ([]byte, [][]byte) {
	stream, err := s.capture.Open(ctx, s.window)
	if err != nil {
		s.logger.Errorw("session: record: opening capture", "ERROR", err)
		return nil, nil
	}
	defer stream.Close()

	s.phase = Recording
	s.recordingActive = true
	defer func() {
		s.recordingActive = false
	}()

	s.logger.Infow("session: record: started", "window", s.window.String())

	var frames [][]byte
collect:
	for {
		select {
		case frame, ok := <-stream.Frames():
			if !ok {
				break collect
			}
			frames = append(frames, frame)

		case <-stop:
			s.logger.Infow("session: record: stop signal received", "frames", len(frames))
			break collect

		case <-ctx.Done():
			s.logger.Infow("session: record: context canceled", "frames", len(frames))
			break collect
		}
	}

	stream.Close()

	audio, err := stream.Audio()
	if err != nil {
		s.logger.Errorw("session: record: reading audio", "ERROR", err)
		audio = nil
	}

	s.logger.Infow("session: record: completed", "frames", len(frames), "audioBytes", len(audio))
	return audio, frames
}
