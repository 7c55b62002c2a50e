package evaluator

import (
	"context"
	"strings"
	"time"

	"github.com/superfeelapi/goInterview/business/question"
)

// SkillSet is the normalized, deduplicated skill list extracted from the
// resume. It is fixed for the whole session.
type SkillSet []string

// NewSkillSet lowercases, trims and deduplicates the raw skills,
// preserving first-seen order.
func NewSkillSet(raw []string) SkillSet {
	seen := make(map[string]bool, len(raw))
	skills := make(SkillSet, 0, len(raw))

	for _, skill := range raw {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		skills = append(skills, skill)
	}
	return skills
}

// =====================================================================================================================
// Modality signals. Each signal's zero-adjacent default is the documented
// degraded value; an assessment always carries all five.

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type TranscriptSignal struct {
	Text         string    `json:"text"`
	LanguageCode string    `json:"language_code"`
	Segments     []Segment `json:"segments"`
}

// WordTimestamp is a word with its approximate time span, interpolated
// evenly across its segment.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// WordTimestamps spreads each segment's words evenly over the segment
// span.
func (t TranscriptSignal) WordTimestamps() []WordTimestamp {
	var words []WordTimestamp

	for _, segment := range t.Segments {
		fields := strings.Fields(segment.Text)
		if len(fields) == 0 {
			continue
		}

		step := (segment.End - segment.Start) / float64(len(fields))
		for i, word := range fields {
			start := segment.Start + float64(i)*step
			words = append(words, WordTimestamp{
				Word:  word,
				Start: start,
				End:   start + step,
			})
		}
	}
	return words
}

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
	LevelSlow   Level = "slow"
	LevelFast   Level = "fast"
)

// VoiceSignal carries the coarse vocal levels. The zero value means the
// modality was absent or failed.
type VoiceSignal struct {
	Energy          Level   `json:"voice_energy,omitempty"`
	Tempo           Level   `json:"speaking_tempo,omitempty"`
	Pitch           Level   `json:"pitch_level,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

func (v VoiceSignal) Absent() bool {
	return v == VoiceSignal{}
}

type Emotion string

// Classifiable emotions in declaration order; the order breaks dominant
// ties.
const (
	Angry    Emotion = "angry"
	Disgust  Emotion = "disgust"
	Fear     Emotion = "fear"
	Happy    Emotion = "happy"
	Sad      Emotion = "sad"
	Surprise Emotion = "surprise"
	Neutral  Emotion = "neutral"

	Unavailable  Emotion = "unavailable"
	EmotionError Emotion = "error"
)

var classifiableEmotions = []Emotion{Angry, Disgust, Fear, Happy, Sad, Surprise, Neutral}

type EmotionSignal struct {
	Dominant    Emotion             `json:"dominant_emotion"`
	Percentages map[Emotion]float64 `json:"emotion_percentages"`
	FrameCount  int                 `json:"frame_count"`
}

type ContentMatchSignal struct {
	MatchedSkills   map[string]int `json:"matched_skills"`
	UnmatchedSkills map[string]int `json:"unmatched_skills"`
	MatchPercentage float64        `json:"match_percentage"`
}

type AnswerQualitySignal struct {
	MentionedSkills []string `json:"mentioned_skills"`
	SkillCoverage   float64  `json:"skill_coverage"`
	WordCount       int      `json:"word_count"`
	Completeness    Level    `json:"completeness"`
	Relevance       Level    `json:"relevance"`
}

// ResponseAssessment is the aggregate result for one answer. Immutable
// once built; session history appends and never rewrites.
type ResponseAssessment struct {
	Question       question.Question   `json:"question"`
	SkillsSnapshot SkillSet            `json:"skills_snapshot"`
	Transcript     TranscriptSignal    `json:"transcription"`
	Voice          VoiceSignal         `json:"voice_analysis"`
	Emotion        EmotionSignal       `json:"emotion_analysis"`
	ContentMatch   ContentMatchSignal  `json:"content_analysis"`
	AnswerQuality  AnswerQualitySignal `json:"answer_evaluation"`
	CreatedAt      time.Time           `json:"created_at"`
}

// =====================================================================================================================
// Adapter contracts. Implementations live under foundation/external and
// foundation/voice; stubs stand in for them in tests.

type Transcript struct {
	Text         string
	LanguageCode string
	Segments     []Segment
}

type VoiceFeatures struct {
	Energy   float64
	Pitch    float64
	Tempo    float64
	Duration float64
}

type FrameEmotion struct {
	Dominant string
	Scores   map[string]float64
}

type Transcriber interface {
	Transcribe(ctx context.Context, wavData []byte) (Transcript, error)
}

type VoiceExtractor interface {
	Extract(wavData []byte) (VoiceFeatures, error)
}

type EmotionClassifier interface {
	Classify(ctx context.Context, frame []byte) (FrameEmotion, error)
}

// Function adapters for wiring concrete backends in main.

type TranscriberFunc func(ctx context.Context, wavData []byte) (Transcript, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, wavData []byte) (Transcript, error) {
	return f(ctx, wavData)
}

type VoiceExtractorFunc func(wavData []byte) (VoiceFeatures, error)

func (f VoiceExtractorFunc) Extract(wavData []byte) (VoiceFeatures, error) {
	return f(wavData)
}

type EmotionClassifierFunc func(ctx context.Context, frame []byte) (FrameEmotion, error)

func (f EmotionClassifierFunc) Classify(ctx context.Context, frame []byte) (FrameEmotion, error) {
	return f(ctx, frame)
}
