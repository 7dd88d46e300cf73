package ai

import (
	"Quizzy/lib/sl"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
)

const encodingName = "cl100k_base"

type tokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func (c tiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// approxCounter assumes four characters per token
type approxCounter struct{}

func (approxCounter) Count(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// newTokenCounter uses the bundled BPE ranks, so no download happens at startup
func newTokenCounter(log *slog.Logger) tokenCounter {
	tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		log.With(
			slog.String("encoding", encodingName),
		).Warn("token encoding unavailable, approximating", sl.Err(err))
		return approxCounter{}
	}
	return tiktokenCounter{encoding: encoding}
}

// splitText cuts text into chunks of at most size tokens: by paragraph,
// then by sentence for long paragraphs, then by word for long sentences
func splitText(text string, size int, tokens tokenCounter) []string {
	s := &splitter{size: size}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		n := tokens.Count(paragraph)
		if n <= size {
			s.add(paragraph+"\n\n", n)
			continue
		}

		for _, sentence := range strings.Split(paragraph, ". ") {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}
			if !strings.HasSuffix(sentence, ".") {
				sentence += "."
			}
			n := tokens.Count(sentence)
			if n <= size {
				s.add(sentence+" ", n)
				continue
			}

			s.flush()
			var words []string
			length := 0
			for _, word := range strings.Fields(sentence) {
				wn := tokens.Count(word + " ")
				if length+wn > size && len(words) > 0 {
					s.chunks = append(s.chunks, strings.Join(words, " "))
					words, length = nil, 0
				}
				words = append(words, word)
				length += wn
			}
			if len(words) > 0 {
				s.chunks = append(s.chunks, strings.Join(words, " "))
			}
		}
	}
	s.flush()
	return s.chunks
}

type splitter struct {
	size    int
	chunks  []string
	current strings.Builder
	length  int
}

func (s *splitter) add(part string, n int) {
	if s.length+n > s.size {
		s.flush()
	}
	s.current.WriteString(part)
	s.length += n
}

func (s *splitter) flush() {
	if chunk := strings.TrimSpace(s.current.String()); chunk != "" {
		s.chunks = append(s.chunks, chunk)
	}
	s.current.Reset()
	s.length = 0
}
