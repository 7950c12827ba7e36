package web

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/tutorbot/pkg/client"
	"github.com/liut/tutorbot/pkg/models/chat"
	"github.com/liut/tutorbot/pkg/widget"
)

func TestWidgetOverHTTP(t *testing.T) {
	ts := newTestServer(t, echoAnswerer{})
	ctx := context.Background()

	api := client.New(ts.URL, client.WithBasicAuth(testEmail, testPassword))
	w := widget.New(api, widget.Controls{HistoryEnabled: api.Registered()})

	for _, q := range []string{"What is a for loop?", "What is a list?"} {
		require.NoError(t, w.Ask(ctx, q).Wait())
	}
	assert.False(t, w.Busy())

	require.NoError(t, w.LoadHistory(ctx).Wait())
	var got []string
	for _, e := range w.Transcript().Entries() {
		got = append(got, e.Kind.String()+":"+string(e.Author))
	}
	assert.Equal(t, []string{
		"header:bot",
		"message:user", "message:bot",
		"separator:",
		"message:user", "message:bot",
	}, got)
	msgs := w.Transcript().Messages()
	assert.Equal(t, "Answer to What is a list?", msgs[len(msgs)-1].Content)
}

func TestWidgetGuestHistory(t *testing.T) {
	ts := newTestServer(t, echoAnswerer{})
	// a guest page still shows the control here, so the 403 path is taken
	w := widget.New(client.New(ts.URL), widget.Controls{HistoryEnabled: true})

	err := w.LoadHistory(context.Background()).Wait()
	assert.ErrorIs(t, err, chat.ErrForbidden)
	msgs := w.Transcript().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.DefaultTexts().HistoryDenied, msgs[0].Content)
}

func TestWidgetUpstreamFailure(t *testing.T) {
	ts := newTestServer(t, echoAnswerer{err: errors.New("upstream down")})
	w := widget.New(client.New(ts.URL), widget.Controls{})

	assert.Error(t, w.Ask(context.Background(), "q").Wait())
	msgs := w.Transcript().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.DefaultTexts().Apology, msgs[1].Content)
	assert.False(t, w.Send().Disabled())
}
