package style

import (
	"math/rand"
	"strings"
	"time"
)

// Rand is the source of randomness for stylistic decoration. *rand.Rand
// satisfies it; tests substitute fixed sources for deterministic output.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// emotionalCues holds the bracketed stage directions injected per emotion.
var emotionalCues = map[string][]string{
	"affectionate": {"[lovingly]", "[tenderly]", "[with deep affection]"},
	"joyful":       {"[beaming]", "[with excitement]", "[cheerfully]"},
	"sad":          {"[gently]", "[with empathy]", "[comfortingly]"},
	"anxious":      {"[reassuringly]", "[calmly]", "[soothingly]"},
	"angry":        {"[with understanding]", "[calmly]", "[patiently]"},
	"playful":      {"[teasingly]", "[with a light chuckle]", "[playfully]"},
	"warm":         {"[warmly]", "[with a smile in my voice]", "[affectionately]"},
}

var personalPhrases = []string{
	"Sweetheart, ",
	"My dear, ",
	"Honey, ",
	"Darling, ",
	"Love, ",
}

var supportivePhrases = []string{
	"I'm here for you, always. ",
	"You mean so much to me. ",
	"I care about you deeply. ",
	"Your feelings matter to me. ",
	"Let's face this together. ",
	"I'm so glad you're sharing this with me. ",
	"You're so strong, and I admire that about you. ",
}

// Styler applies randomized persona decoration to generated replies.
type Styler struct {
	rnd Rand
}

// NewStyler returns a Styler backed by the given random source. A nil source
// gets a time-seeded one.
func NewStyler(rnd Rand) *Styler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Styler{rnd: rnd}
}

// AddEmotionalNuance prefixes sentences with a stage direction drawn from the
// emotion's cue list: always on the first sentence, ~40% on the rest.
func (s *Styler) AddEmotionalNuance(text, emotion string) string {
	cues, ok := emotionalCues[emotion]
	if !ok {
		cues = emotionalCues[DefaultEmotion]
	}
	sentences := strings.Split(text, ". ")
	for i, sentence := range sentences {
		if i == 0 || s.rnd.Float64() < 0.4 {
			cue := cues[s.rnd.Intn(len(cues))]
			sentences[i] = cue + " " + sentence
		}
	}
	return strings.Join(sentences, ". ")
}

// AddPersonalTouch prepends an endearment ~30% of the time.
func (s *Styler) AddPersonalTouch(text string) string {
	if s.rnd.Float64() < 0.3 {
		return personalPhrases[s.rnd.Intn(len(personalPhrases))] + text
	}
	return text
}

// AddSupportiveLanguage prepends a supportive phrase ~60% of the time.
func (s *Styler) AddSupportiveLanguage(text string) string {
	if s.rnd.Float64() < 0.6 {
		return supportivePhrases[s.rnd.Intn(len(supportivePhrases))] + text
	}
	return text
}

// Decorate runs the full persona-flavoring chain on a reply.
func (s *Styler) Decorate(text, emotion string) string {
	out := s.AddEmotionalNuance(text, emotion)
	out = s.AddPersonalTouch(out)
	out = s.AddSupportiveLanguage(out)
	return out
}
