package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/marcsv/go-binder/binder"

	"github.com/liut/tutorbot/pkg/models/chat"
	"github.com/liut/tutorbot/pkg/services/stores"
)

const msgHistoryDenied = "History is only available for registered users"

func (s *server) postAsk(w http.ResponseWriter, r *http.Request) {
	var param chat.AskRequest
	if err := binder.BindBody(r, &param); err != nil {
		apiFail(w, r, http.StatusBadRequest, err)
		return
	}
	question := strings.TrimSpace(param.Question)
	if len(question) == 0 {
		apiFail(w, r, http.StatusBadRequest, chat.ErrEmptyQuestion)
		return
	}
	id, _ := IdentityFromContext(r.Context())
	logger().Infow("ask", "uid", id.ID, "registered", id.Registered, "question", question, "ip", r.RemoteAddr)

	answer, err := s.ans.Answer(r.Context(), question)
	if err != nil {
		apiFail(w, r, http.StatusBadGateway, err)
		return
	}

	now := time.Now()
	cs := stores.NewConversationWith(s.rc, id.ID)
	hi := &chat.HistoryItem{
		Conversation: chat.Conversation{Question: question, Answer: answer},
		Time:         now.Unix(),
		UID:          id.ID,
	}
	if err = cs.AddHistory(r.Context(), hi); err != nil {
		logger().Infow("save conversation fail", "uid", id.ID, "err", err)
	}

	render.JSON(w, r, &chat.AskResponse{
		Question:  question,
		Answer:    answer,
		Timestamp: now.Format(time.RFC3339),
	})
}

func (s *server) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok || !id.Registered {
		apiFail(w, r, http.StatusForbidden, msgHistoryDenied)
		return
	}
	data, err := stores.NewConversationWith(s.rc, id.ID).ListHistory(r.Context())
	if err != nil {
		apiFail(w, r, http.StatusInternalServerError, err)
		return
	}
	convs := data.Conversations()
	render.JSON(w, r, &chat.History{Count: len(convs), Conversations: convs})
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
