package bot

import (
	"Quizzy/markdown"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxMessageLength = 4096

// block tags Telegram does not know are turned into text layout before
// the Telegram policy drops what is left
var telegramTags = strings.NewReplacer(
	"<h1>", "<b>", "</h1>", "</b>",
	"<h2>", "<b>", "</h2>", "</b>",
	"<h3>", "<b>", "</h3>", "</b>",
	"<li>\n<p>", "• ", "</p>\n</li>", "",
	"<li>", "• ", "</li>", "",
	"<p>", "", "</p>", "",
)

var blankLines = regexp.MustCompile(`\n[\s]*\n`)

func telegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "s", "code", "pre")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	return p
}

// telegramRenderer turns markdown into the HTML subset accepted by the
// Telegram HTML parse mode
type telegramRenderer struct {
	html   *markdown.Renderer
	policy *bluemonday.Policy
}

func newTelegramRenderer() *telegramRenderer {
	return &telegramRenderer{
		html:   markdown.NewRenderer(),
		policy: telegramPolicy(),
	}
}

func (r *telegramRenderer) Render(source string) (string, error) {
	html, err := r.html.Render(source)
	if err != nil {
		return "", err
	}
	html = r.policy.Sanitize(telegramTags.Replace(html))
	html = blankLines.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html), nil
}

// parseQuiz reads "/quiz [count] <topic>" arguments. Without a leading
// number the count is left empty and the server default applies.
func parseQuiz(args string) (topic, count string) {
	args = strings.TrimSpace(args)
	first, rest, found := strings.Cut(args, " ")
	if found && isNumber(first) {
		return strings.TrimSpace(rest), first
	}
	return args, ""
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// splitMessage cuts text into chunks Telegram accepts, on blank lines
// where possible so inline tags stay balanced
func splitMessage(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, block := range strings.Split(text, "\n\n") {
		size := utf8.RuneCountInString(block)
		if size > maxMessageLength {
			flush()
			runes := []rune(block)
			for len(runes) > maxMessageLength {
				chunks = append(chunks, string(runes[:maxMessageLength]))
				runes = runes[maxMessageLength:]
			}
			current.WriteString(string(runes))
			continue
		}
		if utf8.RuneCountInString(current.String())+size+2 > maxMessageLength {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
	}
	flush()
	return chunks
}
