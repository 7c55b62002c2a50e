package state

import "sync"

type Service int

const (
	Transcriber Service = iota
	VoiceFeatures
	EmotionClassifier
)

// State tracks which analysis services are still usable for the session.
// A service that fails at startup or permanently mid-session is switched
// off once and stays off; callers degrade to neutral output instead of
// retrying it on every answer.
type State struct {
	sync.RWMutex

	Transcriber       bool
	VoiceFeatures     bool
	EmotionClassifier bool
}

func NewState() *State {
	return &State{
		Transcriber:       true,
		VoiceFeatures:     true,
		EmotionClassifier: true,
	}
}

func (s *State) Get(svc Service) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch svc {
		case Transcriber:
			return s.Transcriber

		case VoiceFeatures:
			return s.VoiceFeatures

		case EmotionClassifier:
			return s.EmotionClassifier
		}
	}
	return false
}

func (s *State) Set(svc Service, state bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch svc {
		case Transcriber:
			s.Transcriber = state

		case VoiceFeatures:
			s.VoiceFeatures = state

		case EmotionClassifier:
			s.EmotionClassifier = state
		}
	}
}
