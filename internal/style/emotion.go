package style

import "strings"

// DefaultEmotion is used when no keyword category matches.
const DefaultEmotion = "warm"

// Classifier maps free text to one of the supported emotional tones.
// The keyword implementation below is a placeholder heuristic; keeping it
// behind an interface lets a real classifier replace it without touching
// the response pipeline.
type Classifier interface {
	Classify(text string) string
}

// emotionKeywords is ordered: the first matching category wins.
var emotionKeywords = []struct {
	emotion string
	words   []string
}{
	{"affectionate", []string{"love", "care", "adore", "cherish", "fond"}},
	{"joyful", []string{"happy", "excited", "delighted", "glad", "joyful"}},
	{"sad", []string{"sad", "depressed", "down", "upset", "unhappy"}},
	{"anxious", []string{"worried", "anxious", "nervous", "stressed", "uneasy"}},
	{"angry", []string{"angry", "furious", "annoyed", "irritated", "mad"}},
	{"playful", []string{"fun", "playful", "silly", "joke", "tease"}},
	{"warm", []string{"nice", "pleasant", "comfortable", "cozy", "friendly"}},
}

// KeywordClassifier detects emotion by membership in small fixed keyword lists.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range emotionKeywords {
		for _, w := range cat.words {
			if strings.Contains(lower, w) {
				return cat.emotion
			}
		}
	}
	return DefaultEmotion
}

// voiceVariations maps an emotional tone to the voice-style tag sent to TTS.
var voiceVariations = map[string]string{
	"affectionate": "soft",
	"joyful":       "happy",
	"sad":          "gentle",
	"anxious":      "concerned",
	"angry":        "calm",
	"playful":      "cheerful",
	"warm":         "default",
}

// VoiceStyleFor returns the voice-style tag for an emotional tone.
func VoiceStyleFor(emotion string) string {
	if v, ok := voiceVariations[emotion]; ok {
		return v
	}
	return "default"
}
