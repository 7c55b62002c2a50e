package session_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/superfeelapi/goInterview/business/evaluator"
	"github.com/superfeelapi/goInterview/business/question"
	"github.com/superfeelapi/goInterview/business/session"
	"github.com/superfeelapi/goInterview/foundation/config"
	"go.uber.org/zap"
)

// =====================================================================================================================
// Stub capture channel.

type stubStream struct {
	frames   chan []byte
	audio    []byte
	audioErr error
	closed   int
}

func (s *stubStream) Frames() <-chan []byte {
	return s.frames
}

func (s *stubStream) Audio() ([]byte, error) {
	return s.audio, s.audioErr
}

func (s *stubStream) Close() error {
	s.closed++
	return nil
}

func newSession(t *testing.T, capture session.Capture) *session.Session {
	t.Helper()

	log := zap.NewNop().Sugar()

	eval := evaluator.New(evaluator.Settings{
		Logger: log,
		Transcriber: evaluator.TranscriberFunc(func(_ context.Context, wav []byte) (evaluator.Transcript, error) {
			return evaluator.Transcript{Text: string(wav), LanguageCode: "en"}, nil
		}),
		Emotion: evaluator.EmotionClassifierFunc(func(_ context.Context, frame []byte) (evaluator.FrameEmotion, error) {
			return evaluator.FrameEmotion{Dominant: "neutral"}, nil
		}),
	})

	cfg := config.Default()
	gen := question.NewGenerator(question.Settings{
		Templates: cfg.Templates,
		Scenarios: cfg.Scenarios,
		Keywords:  cfg.Keywords,
		Seed:      11,
	})

	return session.New(session.Settings{
		Logger:    log,
		Evaluator: eval,
		Generator: gen,
		Capture:   capture,
		Window:    100 * time.Millisecond,
	})
}

func captureOf(stream *stubStream) session.Capture {
	return session.CaptureFunc(func(_ context.Context, _ time.Duration) (session.Stream, error) {
		return stream, nil
	})
}

// =====================================================================================================================

func TestBegin(t *testing.T) {
	s := newSession(t, captureOf(&stubStream{}))

	if s.Phase() != session.AwaitingSkills {
		t.Fatalf("expected awaiting-skills, got %s", s.Phase())
	}

	if err := s.Begin([]string{"Team Lead", "python"}); err != nil {
		t.Fatal(err)
	}

	if s.Phase() != session.HasQuestion {
		t.Fatalf("expected has-question, got %s", s.Phase())
	}
	if _, ok := s.CurrentQuestion(); !ok {
		t.Fatal("expected a current question after begin")
	}
	if got := s.Skills(); !reflect.DeepEqual(got, evaluator.SkillSet{"team lead", "python"}) {
		t.Fatalf("unexpected normalized skills: %v", got)
	}

	if err := s.Begin([]string{"python"}); err == nil {
		t.Fatal("expected error on double begin")
	}
}

func TestBeginWithoutSkills(t *testing.T) {
	s := newSession(t, captureOf(&stubStream{}))

	if err := s.Begin(nil); err == nil {
		t.Fatal("expected error for empty skill list")
	}
	if s.Phase() != session.AwaitingSkills {
		t.Fatalf("expected session to stay in awaiting-skills, got %s", s.Phase())
	}
}

func TestRunAnswerBeforeBegin(t *testing.T) {
	s := newSession(t, captureOf(&stubStream{}))

	if _, err := s.RunAnswer(context.Background(), nil); err == nil {
		t.Fatal("expected error before begin")
	}
}

func TestRunAnswerFullWindow(t *testing.T) {
	frames := make(chan []byte, 3)
	frames <- []byte("f1")
	frames <- []byte("f2")
	frames <- []byte("f3")
	close(frames)

	stream := &stubStream{frames: frames, audio: []byte("i used python")}
	s := newSession(t, captureOf(stream))

	if err := s.Begin([]string{"python", "team lead"}); err != nil {
		t.Fatal(err)
	}
	first, _ := s.CurrentQuestion()

	a, err := s.RunAnswer(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if a.Emotion.FrameCount != 3 {
		t.Fatalf("expected 3 frames evaluated, got %d", a.Emotion.FrameCount)
	}
	if a.Transcript.Text != "i used python" {
		t.Fatalf("unexpected transcript: %q", a.Transcript.Text)
	}
	if a.Question != first {
		t.Fatalf("expected assessment for the asked question")
	}

	if stream.closed == 0 {
		t.Fatal("expected capture stream to be closed")
	}
	if s.RecordingActive() {
		t.Fatal("expected recording flag cleared")
	}
	if s.Phase() != session.HasQuestion {
		t.Fatalf("expected has-question after evaluation, got %s", s.Phase())
	}

	// The next question must use a fresh scenario.
	next, ok := s.CurrentQuestion()
	if !ok {
		t.Fatal("expected a next question")
	}
	if next.Context == first.Context {
		t.Fatalf("scenario %q repeated", next.Context)
	}

	if len(s.History()) != 1 {
		t.Fatalf("expected one history entry, got %d", len(s.History()))
	}
}

func TestRunAnswerEarlyStop(t *testing.T) {
	frames := make(chan []byte)
	stop := make(chan struct{})

	stream := &stubStream{frames: frames, audio: []byte("short answer")}
	s := newSession(t, captureOf(stream))

	if err := s.Begin([]string{"python developer"}); err != nil {
		t.Fatal(err)
	}

	go func() {
		frames <- []byte("f1")
		frames <- []byte("f2")
		close(stop)
	}()

	a, err := s.RunAnswer(context.Background(), stop)
	if err != nil {
		t.Fatal(err)
	}

	// Partial buffers are evaluated as-is: two frames, short audio.
	if a.Emotion.FrameCount != 2 {
		t.Fatalf("expected 2 frames from the cut window, got %d", a.Emotion.FrameCount)
	}
	if a.Transcript.Text != "short answer" {
		t.Fatalf("unexpected transcript: %q", a.Transcript.Text)
	}
	if stream.closed == 0 {
		t.Fatal("expected capture stream closed after early stop")
	}
}

func TestRunAnswerCaptureFailure(t *testing.T) {
	capture := session.CaptureFunc(func(_ context.Context, _ time.Duration) (session.Stream, error) {
		return nil, errors.New("no such device")
	})

	s := newSession(t, capture)
	if err := s.Begin([]string{"python developer"}); err != nil {
		t.Fatal(err)
	}

	a, err := s.RunAnswer(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if a.Transcript.Text != "" || a.Emotion.Dominant != evaluator.Unavailable {
		t.Fatalf("expected fully degraded assessment, got %+v", a)
	}
	if len(s.History()) != 1 {
		t.Fatal("expected degraded assessment appended to history")
	}
}

func TestHistoryAppendOnlyAndSnapshot(t *testing.T) {
	skills := []string{"python", "team lead"}

	run := func(s *session.Session) evaluator.ResponseAssessment {
		a, err := s.RunAnswer(context.Background(), nil)
		if err != nil {
			t.Fatal(err)
		}
		return a
	}

	frames := make(chan []byte)
	close(frames)
	stream := &stubStream{frames: frames, audio: []byte("answer one")}
	s := newSession(t, captureOf(stream))

	if err := s.Begin(skills); err != nil {
		t.Fatal(err)
	}

	first := run(s)

	// Mutating the caller's slice after begin must not affect snapshots.
	skills[0] = "JAVA"

	if !reflect.DeepEqual(first.SkillsSnapshot, evaluator.SkillSet{"python", "team lead"}) {
		t.Fatalf("snapshot drifted: %v", first.SkillsSnapshot)
	}

	second := run(s)

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if !reflect.DeepEqual(history[0].SkillsSnapshot, first.SkillsSnapshot) {
		t.Fatal("history entry mutated")
	}
	if !reflect.DeepEqual(second.SkillsSnapshot, first.SkillsSnapshot) {
		t.Fatal("second snapshot drifted")
	}
}
