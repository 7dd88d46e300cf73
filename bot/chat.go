package bot

import (
	"Quizzy/lib/sl"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// command messages have nothing to prevent
type commandEvent struct{}

func (commandEvent) PreventDefault() {}

type chatForm struct {
	topic string
	count string
}

func (f chatForm) Topic() string        { return f.topic }
func (f chatForm) NumQuestions() string { return f.count }

// chatPage is the page of one chat: the result is sent as a message
// once it is shown, alerts are sent right away
type chatPage struct {
	chatID int64
	out    sender
	log    *slog.Logger
	html   string
}

func (p *chatPage) SetQuestionsHTML(html string) {
	p.html = html
}

func (p *chatPage) ShowResult() {
	for _, chunk := range splitMessage(p.html) {
		msg := tgbotapi.NewMessage(p.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		p.send(msg)
	}
}

func (p *chatPage) Alert(message string) {
	p.send(tgbotapi.NewMessage(p.chatID, message))
}

func (p *chatPage) send(msg tgbotapi.MessageConfig) {
	if _, err := p.out.Send(msg); err != nil {
		p.log.With(
			slog.Int64("chat_id", p.chatID),
		).Error("sending message", sl.Err(err))
	}
}
