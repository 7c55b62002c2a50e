package pubsub

// Subscriber is one consumer of a live feedback topic, such as the
// per-frame emotion feed shown while an answer is being recorded.
type Subscriber struct {
	payload chan any
}

// NewSubscriber builds a subscriber with the given channel capacity. A
// buffered channel keeps a slow consumer from stalling the evaluator's
// publish path.
func NewSubscriber(channelCapacity int) *Subscriber {
	if channelCapacity > 0 {
		return &Subscriber{
			payload: make(chan any, channelCapacity),
		}
	}
	return &Subscriber{
		payload: make(chan any),
	}
}

func (s *Subscriber) Signal(data any) {
	s.payload <- data
}

func (s *Subscriber) GetChannel() <-chan any {
	return s.payload
}

func (s *Subscriber) CloseChannel() {
	close(s.payload)
}
