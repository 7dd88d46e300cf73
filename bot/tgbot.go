package bot

import (
	"Quizzy/core"
	"Quizzy/form"
	"Quizzy/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const (
	busyResponse   = "Still working on your previous request, please wait."
	usageResponse  = "Tell me a topic, for example: /quiz 7 photosynthesis"
	requestTimeout = 3 * time.Minute
)

type TgBot struct {
	conf     *core.Config
	log      *slog.Logger
	api      *tgbotapi.BotAPI
	out      sender
	renderer form.Renderer
	client   *http.Client
	inFlight sync.Map
	done     chan struct{}
	stopOnce sync.Once
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.TelegramApiKey)
	if err != nil {
		return nil, fmt.Errorf("creating bot api: %w", err)
	}

	tgBot := newBot(conf, api, log)
	tgBot.api = api
	if conf.Username == "" {
		conf.Username = api.Self.UserName
	}
	return tgBot, nil
}

func newBot(conf *core.Config, out sender, log *slog.Logger) *TgBot {
	return &TgBot{
		conf:     conf,
		log:      log.With(sl.Module("tgbot")),
		out:      out,
		renderer: newTelegramRenderer(),
		client:   &http.Client{Timeout: requestTimeout},
		done:     make(chan struct{}),
	}
}

// Start blocks until Stop is called
func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("getting updates: %w", err)
	}

	t.log.With(
		slog.String("username", t.conf.Username),
		slog.String("endpoint", t.conf.Client.Endpoint),
	).Info("bot started")

	for {
		select {
		case <-t.done:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go t.handleMessage(update.Message)
		}
	}
}

func (t *TgBot) Stop() {
	t.stopOnce.Do(func() {
		if t.api != nil {
			t.api.StopReceivingUpdates()
		}
		close(t.done)
	})
}

func (t *TgBot) handleMessage(incoming *tgbotapi.Message) {
	if incoming.Chat == nil {
		return
	}
	chatID := incoming.Chat.ID

	var args string
	switch {
	case incoming.IsCommand():
		switch incoming.Command() {
		case "help", "start":
			t.plainResponse(chatID, helpText())
			return
		case "quiz":
			args = incoming.CommandArguments()
		default:
			return
		}
	case incoming.Chat.IsPrivate():
		args = incoming.Text
	default:
		return
	}

	topic, count := parseQuiz(args)
	if topic == "" {
		t.plainResponse(chatID, usageResponse)
		return
	}

	if _, busy := t.inFlight.LoadOrStore(chatID, struct{}{}); busy {
		t.plainResponse(chatID, busyResponse)
		return
	}
	defer t.inFlight.Delete(chatID)

	t.log.With(
		slog.Int64("chat_id", chatID),
		sl.Topic(topic),
		slog.String("count", count),
	).Debug("quiz requested")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	go t.keepTyping(ctx, chatID)

	page := &chatPage{chatID: chatID, out: t.out, log: t.log}
	handler := form.NewHandler(t.conf.Client.Endpoint, chatForm{topic: topic, count: count}, page, t.renderer, t.log)
	handler.SetClient(t.client)

	outcome := handler.Submit(ctx, commandEvent{})
	t.log.With(
		slog.Int64("chat_id", chatID),
		slog.String("outcome", outcome.String()),
	).Info("quiz answered")
}

// keepTyping refreshes the typing status until ctx is done
func (t *TgBot) keepTyping(ctx context.Context, chatID int64) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		if _, err := t.out.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			t.log.Debug("sending chat action", sl.Err(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (t *TgBot) plainResponse(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.out.Send(msg); err != nil {
		t.log.With(
			slog.Int64("chat_id", chatID),
		).Error("sending message", sl.Err(err))
	}
}

func helpText() string {
	var b strings.Builder
	b.WriteString("You can use the following commands:\n")
	b.WriteString("/help - show this help\n")
	b.WriteString("/quiz [count] <topic> - generate study questions on a topic\n")
	b.WriteString("In a private chat you can also just send the topic.")
	return b.String()
}
