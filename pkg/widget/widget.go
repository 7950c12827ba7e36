// Package widget is a chat widget over a question/answer backend.
//
// A Widget owns a Transcript and two controls. Submit and LoadHistory run
// their network step on a goroutine and report through a Task; every
// transcript or control change is made with the widget lock held, so the
// widget behaves like a single event loop.
package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/liut/tutorbot/pkg/models/chat"
)

// API is the backend collaborator
type API interface {
	Ask(ctx context.Context, question string) (string, error)
	History(ctx context.Context) (*chat.History, error)
}

// Option ...
type Option func(w *Widget)

// WithTexts overrides the fixed strings, empty fields keep defaults
func WithTexts(texts chat.Texts) Option {
	return func(w *Widget) {
		w.texts = texts.Merge(w.texts)
	}
}

// WithLogger sets the diagnostic channel
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *Widget) {
		if l != nil {
			w.log = l
		}
	}
}

// Widget is the chat widget context
type Widget struct {
	mu sync.Mutex

	api   API
	ts    *Transcript
	input *Input
	send  *Button
	texts chat.Texts
	log   *zap.SugaredLogger

	historyEnabled bool
	busy           bool
}

// New builds a widget on the given controls, renders the welcome message
// into an empty transcript and focuses the input.
func New(api API, ctls Controls, opts ...Option) *Widget {
	ctls.setDefaults()
	w := &Widget{
		api:            api,
		ts:             ctls.Transcript,
		input:          ctls.Input,
		send:           ctls.Send,
		texts:          chat.DefaultTexts(),
		log:            zap.S(),
		historyEnabled: ctls.HistoryEnabled,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.ts.Len() == 0 {
		w.ts.AddWelcome(w.texts.Welcome)
	}
	w.input.Focus()
	return w
}

// Transcript ...
func (w *Widget) Transcript() *Transcript { return w.ts }

// Input ...
func (w *Widget) Input() *Input { return w.input }

// Send returns the submit control
func (w *Widget) Send() *Button { return w.send }

// Texts ...
func (w *Widget) Texts() chat.Texts { return w.texts }

// HistoryEnabled ...
func (w *Widget) HistoryEnabled() bool { return w.historyEnabled }

// Busy reports a question in flight
func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// View runs fn with the lock held, for reading a consistent transcript
func (w *Widget) View(fn func(ts *Transcript)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.ts)
}

// Ask types text into the input and submits it
func (w *Widget) Ask(ctx context.Context, text string) *Task {
	w.input.SetValue(text)
	return w.Submit(ctx)
}

// Submit sends the input text as a question. It returns nil when the text is
// blank or another question is in flight.
func (w *Widget) Submit(ctx context.Context) *Task {
	w.mu.Lock()
	question := strings.TrimSpace(w.input.Value())
	if len(question) == 0 {
		w.mu.Unlock()
		return nil
	}
	if w.busy {
		w.mu.Unlock()
		w.log.Debugw("submit ignored, busy", "question", question)
		return nil
	}
	w.input.SetValue("")
	w.setBusy(true)
	w.ts.AddMessage(question, true)
	w.ts.ShowThinking(w.texts.Thinking)
	w.mu.Unlock()

	task := newTask()
	go func() {
		defer task.finish()
		answer, err := w.callAsk(ctx, question)

		w.mu.Lock()
		defer w.mu.Unlock()
		defer func() {
			w.setBusy(false)
			w.input.Focus()
		}()

		w.ts.RemoveThinking()
		if err != nil {
			w.log.Infow("ask fail", "question", question, "err", err)
			task.err = err
			w.ts.AddMessage(w.texts.Apology, false)
			return
		}
		w.ts.AddMessage(answer, false)
	}()
	return task
}

// LoadHistory shows saved conversations. It returns nil when history is not
// enabled for this widget.
func (w *Widget) LoadHistory(ctx context.Context) *Task {
	if !w.historyEnabled {
		return nil
	}

	task := newTask()
	go func() {
		defer task.finish()
		data, err := w.callHistory(ctx)

		w.mu.Lock()
		defer w.mu.Unlock()
		task.err = err
		switch {
		case errors.Is(err, chat.ErrForbidden):
			w.ts.AddMessage(w.texts.HistoryDenied, false)
		case err != nil:
			w.log.Infow("load history fail", "err", err)
			w.ts.AddMessage(w.texts.HistoryFailed, false)
		case len(data.Conversations) == 0:
			w.ts.AddMessage(w.texts.HistoryEmpty, false)
		default:
			w.renderHistory(data)
		}
	}()
	return task
}

// Clear empties the transcript and puts the welcome message back.
// Saved history is not touched.
func (w *Widget) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ts.Clear()
	w.ts.AddWelcome(w.texts.Welcome)
}

func (w *Widget) renderHistory(data *chat.History) {
	w.ts.Clear()
	w.ts.AddHeader(w.texts, data.Count)
	last := len(data.Conversations) - 1
	for i, cv := range data.Conversations {
		w.ts.AddMessage(cv.Question, true)
		w.ts.AddMessage(cv.Answer, false)
		if i < last {
			w.ts.AddSeparator()
		}
	}
}

func (w *Widget) setBusy(v bool) {
	w.busy = v
	w.send.SetDisabled(v)
}

func (w *Widget) callAsk(ctx context.Context, question string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ask panic: %v", r)
		}
	}()
	return w.api.Ask(ctx, question)
}

func (w *Widget) callHistory(ctx context.Context) (data *chat.History, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("history panic: %v", r)
		}
	}()
	data, err = w.api.History(ctx)
	if err == nil && data == nil {
		err = chat.ErrMalformed
	}
	return
}
