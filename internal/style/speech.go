package style

import (
	"regexp"
	"strings"
)

var (
	tagOrCueRe   = regexp.MustCompile(`<[^>]*>|\[.*?\]`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>`)
	newlinesRe   = regexp.MustCompile(`\n+`)
	punctGapRe   = regexp.MustCompile(`([.!?])\s+`)
	punctStuckRe = regexp.MustCompile(`([.!?])([A-Za-z])`)
	commaRe      = regexp.MustCompile(`,\s*`)
	specialsRe   = regexp.MustCompile(`[^\w\s.,!?'-]`)
	entityRe     = regexp.MustCompile(`&[\w\d#]{2,5};`)
	emphasisRe   = regexp.MustCompile(`(?i)\b(moon|sun|cosmic|adventure|stars|lunar|space|universe)\b`)
	endearmentRe = regexp.MustCompile(`(?i)\b(sweetie|darling|sweetheart)\b(\.\.\.)?`)
)

var htmlEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#039;": "'",
	"&apos;": "'",
	"&#x27;": "'",
	"&#x2F;": "/",
	"&#32;":  " ",
	"&nbsp;": " ",
}

func decodeEntities(text string) string {
	return entityRe.ReplaceAllStringFunc(text, func(e string) string {
		if v, ok := htmlEntities[e]; ok {
			return v
		}
		return e
	})
}

// StripMarkup removes HTML tags and bracketed stage directions after decoding
// entities. Running it twice yields the same output as running it once.
func StripMarkup(text string) string {
	out := decodeEntities(text)
	return tagOrCueRe.ReplaceAllString(out, "")
}

// PrepareForSpeech turns display markup into plain text suited for the
// text-to-speech endpoint: tags and stage cues stripped, breaks converted to
// sentence stops, random ellipses for pacing, emphasis words upper-cased and
// endearments softened with a trailing ellipsis.
func PrepareForSpeech(text string, rnd Rand) string {
	out := StripMarkup(text)

	out = brRe.ReplaceAllString(out, ". ")
	out = newlinesRe.ReplaceAllString(out, ". ")

	out = punctGapRe.ReplaceAllString(out, "$1 ")
	out = punctStuckRe.ReplaceAllString(out, "$1 $2")
	out = commaRe.ReplaceAllString(out, ", ")

	out = addPauses(out, rnd)
	out = addEmphasis(out)
	out = softenEndearments(out)

	out = specialsRe.ReplaceAllString(out, "")
	out = strings.Join(strings.Fields(out), " ")
	return out
}

// splitSentences splits after terminal punctuation followed by whitespace,
// keeping the punctuation with the sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			// consume a run of terminal punctuation
			j := i
			for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
				j++
			}
			if j+1 < len(runes) && runes[j+1] == ' ' {
				out = append(out, strings.TrimSpace(string(runes[start:j+1])))
				start = j + 2
			}
			i = j
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

// addPauses appends an ellipsis to ~30% of non-final sentence boundaries.
func addPauses(text string, rnd Rand) string {
	sentences := splitSentences(text)
	for i := range sentences {
		if i < len(sentences)-1 && rnd.Float64() < 0.3 {
			sentences[i] += "..."
		}
	}
	return strings.Join(sentences, " ")
}

func addEmphasis(text string) string {
	return emphasisRe.ReplaceAllStringFunc(text, strings.ToUpper)
}

// softenEndearments lower-cases endearment words and appends a trailing
// ellipsis. Words already softened are left as they are.
func softenEndearments(text string) string {
	return endearmentRe.ReplaceAllStringFunc(text, func(m string) string {
		word := strings.TrimSuffix(m, "...")
		return strings.ToLower(word) + "..."
	})
}
