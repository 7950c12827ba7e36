package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liut/tutorbot/pkg/models/chat"
)

func TestAsk(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req chat.AskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is a for loop?", req.Question)
		_, _ = w.Write([]byte(`{"question":"What is a for loop?","answer":"A for loop repeats...","timestamp":"now"}`))
	}))
	defer ts.Close()

	answer, err := New(ts.URL + "/").Ask(context.Background(), "What is a for loop?")
	require.NoError(t, err)
	assert.Equal(t, "A for loop repeats...", answer)
}

func TestAskFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"answer":"not read"}`))
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"no answer": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"x"}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(h)
			defer ts.Close()
			_, err := New(ts.URL).Ask(context.Background(), "q")
			assert.Error(t, err)
		})
	}

	_, err := New("http://127.0.0.1:1").Ask(context.Background(), "q")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, pass, ok := r.BasicAuth()
		if !ok || email != "ann@example.edu" || pass != "secret" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"History is only available for registered users"}`))
			return
		}
		_, _ = w.Write([]byte(`{"count":2,"conversations":[{"question":"A","answer":"B"},{"question":"C","answer":"D"}]}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithBasicAuth("ann@example.edu", "secret"))
	assert.True(t, c.Registered())
	data, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, data.Count)
	assert.Equal(t, chat.Conversations{{Question: "A", Answer: "B"}, {Question: "C", Answer: "D"}}, data.Conversations)

	_, err = New(ts.URL).History(context.Background())
	assert.ErrorIs(t, err, chat.ErrForbidden)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestHistoryOtherStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).History(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, chat.ErrForbidden))
}

func TestSessionCookieKept(t *testing.T) {
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("tbsid"); err == nil {
			seen = append(seen, ck.Value)
		} else {
			http.SetCookie(w, &http.Cookie{Name: "tbsid", Value: "guest-1", Path: "/"})
		}
		_, _ = w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	for i := 0; i < 2; i++ {
		_, err := c.Ask(context.Background(), "q")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"guest-1"}, seen)
}
