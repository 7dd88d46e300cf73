// Command ask submits one question request to a running server and prints
// the rendered HTML.
package main

import (
	"Quizzy/form"
	"Quizzy/lib/sl"
	"Quizzy/markdown"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const defaultEndpoint = "http://127.0.0.1:8000"

func main() {
	_ = godotenv.Load()
	os.Exit(execute(os.Args[1:]))
}

// execute runs with signal handling and returns the exit code, so deferred
// cleanup happens before main exits
func execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	endpoint := os.Getenv("CLIENT_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	flags := flag.NewFlagSet("ask", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&endpoint, "endpoint", endpoint, "server base url")
	topic := flags.String("topic", "", "topic of the questions")
	count := flags.String("n", "", "number of questions, server default when empty")
	out := flags.String("out", "", "write the HTML to this file instead of stdout")
	verbose := flags.Bool("v", false, "debug logging")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	page := &terminalPage{stdout: stdout, stderr: stderr, path: *out}
	handler := form.NewHandler(endpoint, flagForm{topic: *topic, count: *count}, page, markdown.NewRenderer(), log)

	outcome := handler.Submit(ctx, noEvent{})
	if outcome != form.Rendered || page.err != nil {
		if page.err != nil {
			log.Error("writing result", sl.Err(page.err))
		}
		return 1
	}
	return 0
}

type noEvent struct{}

func (noEvent) PreventDefault() {}

type flagForm struct {
	topic string
	count string
}

func (f flagForm) Topic() string        { return f.topic }
func (f flagForm) NumQuestions() string { return f.count }

type terminalPage struct {
	stdout io.Writer
	stderr io.Writer
	path   string
	html   string
	err    error
}

func (p *terminalPage) SetQuestionsHTML(html string) {
	p.html = html
}

func (p *terminalPage) ShowResult() {
	if p.path == "" {
		_, p.err = io.WriteString(p.stdout, p.html)
		return
	}
	p.err = os.WriteFile(p.path, []byte(p.html), 0o644)
}

func (p *terminalPage) Alert(message string) {
	_, _ = fmt.Fprintln(p.stderr, message)
}
