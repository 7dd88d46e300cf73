package form

import (
	"Quizzy/lib/sl"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
)

const (
	// GeneratePath is the fixed endpoint every submission is posted to
	GeneratePath = "/generate"

	FallbackMessage = "An error occurred while generating questions."
)

// Event is the submit event that triggered the handler
type Event interface {
	PreventDefault()
}

// Form gives read access to the input fields at submission time
type Form interface {
	Topic() string
	NumQuestions() string
}

// Page is the part of the page the handler writes to
type Page interface {
	SetQuestionsHTML(html string)
	ShowResult()
	Alert(message string)
}

type Renderer interface {
	Render(markdown string) (string, error)
}

type Outcome int

const (
	// Rendered means the questions were rendered and the result shown
	Rendered Outcome = iota
	// Rejected means the server answered but reported a failure
	Rejected
	// Failed means the request, the decoding or the rendering failed
	Failed
	// Ignored means another submission was still in flight
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Ignored:
		return "ignored"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Handler struct {
	url      string
	form     Form
	page     Page
	renderer Renderer
	client   *http.Client
	log      *slog.Logger
	inFlight atomic.Bool
}

// NewHandler binds a handler to one form and page. baseURL is the server
// origin; the request always goes to baseURL + GeneratePath.
func NewHandler(baseURL string, form Form, page Page, renderer Renderer, log *slog.Logger) *Handler {
	return &Handler{
		url:      strings.TrimSuffix(baseURL, "/") + GeneratePath,
		form:     form,
		page:     page,
		renderer: renderer,
		client:   &http.Client{},
		log:      log.With(sl.Module("form")),
	}
}

// SetClient replaces the HTTP client, e.g. to add a timeout or a transport
func (h *Handler) SetClient(client *http.Client) {
	h.client = client
}

// Submit runs one submission. A submission arriving while another one is
// pending on the same handler is dropped.
func (h *Handler) Submit(ctx context.Context, ev Event) Outcome {
	ev.PreventDefault()

	if !h.inFlight.CompareAndSwap(false, true) {
		h.log.Debug("submission ignored, previous one still pending")
		return Ignored
	}
	defer h.inFlight.Store(false)

	request := Request{
		Topic:        h.form.Topic(),
		NumQuestions: ParseCount(h.form.NumQuestions()),
	}

	response, err := h.send(ctx, request)
	if err != nil {
		return h.fail(err)
	}

	if !response.Success {
		message := response.Error
		if message == "" {
			message = FallbackMessage
		}
		h.log.With(
			sl.Topic(request.Topic),
			slog.String("count", request.NumQuestions.String()),
		).Info("generation rejected", slog.String("reason", message))
		h.page.Alert(message)
		return Rejected
	}

	if response.Questions == nil {
		return h.fail(errors.New("response has no questions"))
	}
	html, err := h.renderer.Render(*response.Questions)
	if err != nil {
		return h.fail(err)
	}
	h.page.SetQuestionsHTML(html)
	h.page.ShowResult()
	return Rendered
}

func (h *Handler) fail(err error) Outcome {
	h.log.Error("submission failed", sl.Err(err))
	h.page.Alert(FallbackMessage)
	return Failed
}

func (h *Handler) send(ctx context.Context, request Request) (*Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			h.log.Warn("closing response body", sl.Err(err))
		}
	}(resp.Body)

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response (status %d): %w", resp.StatusCode, err)
	}

	var response *Response
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}
	if response == nil {
		return nil, fmt.Errorf("decoding response (status %d): null body", resp.StatusCode)
	}
	return response, nil
}
