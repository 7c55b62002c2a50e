package evaluator

import (
	"context"
	"strings"
	"sync"

	"github.com/superfeelapi/goInterview/foundation/pubsub"
	"github.com/superfeelapi/goInterview/foundation/state"
)

// classifyFrames runs the emotion classifier over every frame on a
// bounded worker pool and joins before summarizing, so the percentages
// are computed against the final frame count.
func (e *Evaluator) classifyFrames(ctx context.Context, frames [][]byte) EmotionSignal {
	if len(frames) == 0 || !e.state.Get(state.EmotionClassifier) {
		return EmotionSignal{
			Dominant:    Unavailable,
			Percentages: zeroPercentages(),
			FrameCount:  0,
		}
	}

	results := make([]Emotion, len(frames))

	workers := e.frameWorkers
	if workers > len(frames) {
		workers = len(frames)
	}

	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.classifyFrame(ctx, frames[i])
			}
		}()
	}

	for i := range frames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return summarizeEmotions(results)
}

// classifyFrame never aborts the batch: a failed or unknown
// classification counts as neutral.
func (e *Evaluator) classifyFrame(ctx context.Context, frame []byte) Emotion {
	result, err := e.emotion.Classify(ctx, frame)
	if err != nil {
		e.logger.Errorw("evaluator: classifyFrame", "ERROR", err)
		return Neutral
	}

	dominant := Emotion(strings.ToLower(result.Dominant))
	if !isClassifiable(dominant) {
		dominant = Neutral
	}

	e.publish(pubsub.TopicEmotion, dominant)
	return dominant
}

func summarizeEmotions(results []Emotion) EmotionSignal {
	counts := make(map[Emotion]int, len(classifiableEmotions))
	for _, result := range results {
		counts[result]++
	}

	total := len(results)
	percentages := make(map[Emotion]float64, len(classifiableEmotions))
	dominant := classifiableEmotions[0]
	for _, emotion := range classifiableEmotions {
		percentages[emotion] = float64(counts[emotion]) / float64(total) * 100
		// Strict greater-than keeps the earliest declared emotion on ties.
		if counts[emotion] > counts[dominant] {
			dominant = emotion
		}
	}

	return EmotionSignal{
		Dominant:    dominant,
		Percentages: percentages,
		FrameCount:  total,
	}
}

func isClassifiable(e Emotion) bool {
	for _, emotion := range classifiableEmotions {
		if e == emotion {
			return true
		}
	}
	return false
}

func zeroPercentages() map[Emotion]float64 {
	percentages := make(map[Emotion]float64, len(classifiableEmotions))
	for _, emotion := range classifiableEmotions {
		percentages[emotion] = 0
	}
	return percentages
}
