package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxSummarizedEmails caps how many items get their own summarization call.
const maxSummarizedEmails = 3

const summaryPrompt = "Summarize the following email in 2-3 sentences, highlighting the key points. Do not include phrases like \"Here is a summary\" or \"In summary\". Just provide the concise summary:\n\n"

var senderRe = regexp.MustCompile(`<(.+)>`)

type emailItem struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Snippet string `json:"snippet"`
}

// classifyEmailQuery buckets the query into the mail endpoint's categories.
func classifyEmailQuery(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "unread"), strings.Contains(q, "new"):
		return "unread"
	case strings.Contains(q, "important"):
		return "important"
	case strings.Contains(q, "sent"):
		return "sent"
	case strings.Contains(q, "draft"):
		return "draft"
	default:
		return "recent"
	}
}

// extractEmailItems pulls the bracket-delimited list out of the endpoint's
// reply text. Malformed or missing JSON falls back to an empty list.
func extractEmailItems(reply string) []emailItem {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil
	}
	var items []emailItem
	if err := json.Unmarshal([]byte(reply[start:end+1]), &items); err != nil {
		log.Printf("assistant: failed to parse email list: %v", err)
		return nil
	}
	return items
}

// senderOf prefers the address inside angle brackets of a "Name <addr>" form.
func senderOf(item emailItem) string {
	if m := senderRe.FindStringSubmatch(item.From); m != nil {
		return m[1]
	}
	return item.From
}

// respondEmail queries the mail endpoint, summarizes up to the first three
// items with one model call each in parallel, and composes the combined
// reply. Summaries join before anything is emitted.
func (r *Responder) respondEmail(ctx context.Context, query string) (string, error) {
	category := classifyEmailQuery(query)

	reply, err := r.mail.Query(ctx, category)
	if err != nil {
		return "", fmt.Errorf("read email: %w", err)
	}
	items := extractEmailItems(reply)
	if len(items) == 0 {
		return fmt.Sprintf("[gently] I'm sorry, darling. I couldn't find any %s emails at the moment. Is there anything else I can help you with?", category), nil
	}
	if len(items) > maxSummarizedEmails {
		items = items[:maxSummarizedEmails]
	}

	summaries := make([]string, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			summary, err := r.summarizeEmail(gctx, item)
			if err != nil {
				return err
			}
			summaries[i] = fmt.Sprintf("Email %d was sent by %s. %s", i+1, senderOf(item), summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("summarize emails: %w", err)
	}

	return fmt.Sprintf("[warmly] Sweetie, I've checked your emails for you. Here's a detailed summary of your %s emails:\n\n%s\n\nWould you like me to elaborate on any of these emails?",
		category, strings.Join(summaries, "\n\n")), nil
}

// summarizeEmail issues one model call per item; results are cached so the
// same message is not re-summarized on repeat queries.
func (r *Responder) summarizeEmail(ctx context.Context, item emailItem) (string, error) {
	key := item.Subject + "|" + item.From + "|" + item.Snippet
	if cached, ok := r.summaries.Get(key); ok {
		return cached.(string), nil
	}

	content := fmt.Sprintf("Subject: %s\nFrom: %s\nPreview: %s", item.Subject, item.From, item.Snippet)
	summary, err := r.llm.Generate(ctx, summaryPrompt+content)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	r.summaries.SetDefault(key, summary)
	return summary, nil
}
