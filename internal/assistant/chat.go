package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nirazp1/asha/internal/chat"
	"github.com/nirazp1/asha/internal/style"
)

// personaPreamble anchors every general-chat prompt.
const personaPreamble = "You are Asha, a warm and caring AI companion. Respond in a deeply personal, emotionally attuned manner. Use endearing terms naturally, show genuine care, and be emotionally supportive. Ask thoughtful questions and validate feelings. While being warm and close, maintain appropriate boundaries and encourage healthy real-world relationships."

// historyWindow is how many prior turns are carried into the prompt.
const historyWindow = 5

var stageCueRe = regexp.MustCompile(`\[.*?\]`)

// buildChatPrompt combines the persona preamble, the recent history and the
// new query. The last line must belong to the human.
func buildChatPrompt(history []chat.Turn, query string) string {
	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\n\nPrevious conversation:\n")
	for _, t := range history {
		speaker := "Asha"
		if t.Role == chat.RoleUser {
			speaker = "Human"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, t.Content)
	}
	fmt.Fprintf(&b, "Human: %s\nAsha:", query)
	return b.String()
}

// cleanReply strips bracketed stage directions, bullet markers and newlines
// from the raw model output before styling.
func cleanReply(reply string) string {
	out := stageCueRe.ReplaceAllString(reply, "")
	out = strings.ReplaceAll(out, "•", "Bullet point:")
	out = strings.ReplaceAll(out, "\n", " ")
	return strings.TrimSpace(out)
}

// respondGeneral drives the plain conversational path: prompt the model,
// clean the reply, refresh the ambient tone from the user's wording, apply
// the persona decoration and convert to display markup.
func (r *Responder) respondGeneral(ctx context.Context, query string) (string, error) {
	prompt := buildChatPrompt(r.store.LastTurns(historyWindow), query)
	reply, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate chat reply: %w", err)
	}

	reply = cleanReply(reply)
	emotion := r.classifier.Classify(query)
	r.setEmotion(emotion)

	reply = r.styler.Decorate(reply, emotion)
	return style.FormatResponse(reply), nil
}
