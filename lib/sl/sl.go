package sl

import (
	"fmt"
	"log/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Secret keeps the first 5 characters of a key and masks the rest,
// so configured credentials can be logged at startup
func Secret(some string) slog.Attr {
	r := "***"
	if len(some) > 5 {
		r = fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		r = "?"
	}
	return slog.String("secret", r)
}

func Module(mod string) slog.Attr {
	return slog.String("mod", mod)
}

// Topic logs a user supplied topic cut to 50 runes
func Topic(topic string) slog.Attr {
	r := []rune(topic)
	if len(r) > 50 {
		topic = string(r[:50]) + "..."
	}
	return slog.String("topic", topic)
}
