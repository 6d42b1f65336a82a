package style

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fencedRe     = regexp.MustCompile("(?s)```(\\w*)\\n?(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	decEntityRe  = regexp.MustCompile(`&#(\d+);`)
	namedRe      = regexp.MustCompile(`&[a-z]+;`)
	wsRe         = regexp.MustCompile(`\s+`)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// FormatResponse converts a raw reply into display markup: fenced code blocks
// become <pre><code>, inline backticks become code spans, markdown bold and
// italics become emphasis tags, and newlines become <br>. Everything outside
// code blocks is HTML-escaped first.
func FormatResponse(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range fencedRe.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(formatProse(text[last:loc[0]]))
		language := text[loc[2]:loc[3]]
		code := strings.TrimSpace(text[loc[4]:loc[5]])
		languageClass := ""
		if language != "" {
			languageClass = "language-" + language
		}
		b.WriteString(`<pre class="bg-gray-100 dark:bg-gray-800 p-2 rounded-md my-2 overflow-x-auto"><code class="` + languageClass + `">`)
		b.WriteString(escapeHTML(code))
		b.WriteString("</code></pre>")
		last = loc[1]
	}
	b.WriteString(formatProse(text[last:]))
	return b.String()
}

func formatProse(part string) string {
	out := escapeHTML(part)
	out = inlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		code := inlineCodeRe.FindStringSubmatch(m)[1]
		return `<code class="bg-gray-100 dark:bg-gray-800 px-1 rounded">` + code + `</code>`
	})
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}

// StripTags removes HTML tags, decodes entities and collapses whitespace.
// It is the inverse-enough of FormatResponse for transcript display.
func StripTags(text string) string {
	out := tagRe.ReplaceAllString(text, "")
	out = decEntityRe.ReplaceAllStringFunc(out, func(m string) string {
		n, err := strconv.Atoi(decEntityRe.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		return string(rune(n))
	})
	out = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	).Replace(out)
	out = namedRe.ReplaceAllString(out, " ")
	out = wsRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
