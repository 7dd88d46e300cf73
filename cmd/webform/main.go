//go:build js && wasm

// Command webform is the browser build of the question form handler:
// GOOS=js GOARCH=wasm go build -o static/webform.wasm ./cmd/webform
package main

import (
	"Quizzy/form"
	"Quizzy/markdown"
	"context"
	"log/slog"
	"os"
	"syscall/js"
)

// element ids of the page served at /
const (
	formID      = "questionForm"
	topicID     = "topic"
	countID     = "numQuestions"
	questionsID = "questions"
	resultID    = "result"
)

type domEvent struct {
	value js.Value
}

func (e domEvent) PreventDefault() {
	e.value.Call("preventDefault")
}

type domForm struct {
	topic js.Value
	count js.Value
}

func (f domForm) Topic() string        { return f.topic.Get("value").String() }
func (f domForm) NumQuestions() string { return f.count.Get("value").String() }

type domPage struct {
	window    js.Value
	questions js.Value
	result    js.Value
}

func (p domPage) SetQuestionsHTML(html string) {
	p.questions.Set("innerHTML", html)
}

func (p domPage) ShowResult() {
	p.result.Get("style").Set("display", "block")
}

func (p domPage) Alert(message string) {
	p.window.Call("alert", message)
}

func main() {
	// stderr ends up in the browser console
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	window := js.Global()
	document := window.Get("document")
	byID := func(id string) js.Value {
		el := document.Call("getElementById", id)
		if el.IsNull() {
			log.Error("element not found", slog.String("id", id))
			os.Exit(1)
		}
		return el
	}

	handler := form.NewHandler(
		window.Get("location").Get("origin").String(),
		domForm{topic: byID(topicID), count: byID(countID)},
		domPage{window: window, questions: byID(questionsID), result: byID(resultID)},
		markdown.NewRenderer(),
		log,
	)

	onSubmit := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := domEvent{value: args[0]}
		// the browser only honours preventDefault inside the callback
		ev.PreventDefault()
		go handler.Submit(context.Background(), ev)
		return nil
	})
	defer onSubmit.Release()

	byID(formID).Call("addEventListener", "submit", onSubmit)
	log.Info("question form ready")

	select {}
}
