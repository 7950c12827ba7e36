package chat

import "encoding/json"

// Conversation is a saved question/answer pair
type Conversation struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Conversations []Conversation

// History is the reply of GET /history
type History struct {
	Count         int           `json:"count"`
	Conversations Conversations `json:"conversations"`
}

// HistoryItem is a stored conversation with its owner and time
type HistoryItem struct {
	Conversation

	Time      int64  `json:"time"`
	SessionID string `json:"sessionID,omitempty"`
	UID       string `json:"uid"`
}

type HistoryItems []HistoryItem

// Conversations drops metadata and keeps the order
func (z HistoryItems) Conversations() Conversations {
	out := make(Conversations, 0, len(z))
	for _, hi := range z {
		out = append(out, hi.Conversation)
	}
	return out
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (z *HistoryItem) MarshalBinary() (data []byte, err error) {
	data, err = json.Marshal(z)
	return
}

// UnmarshalBinary unmarshal a binary representation of itself. for redis result.Scan
func (z *HistoryItem) UnmarshalBinary(data []byte) error {
	var t HistoryItem
	err := json.Unmarshal(data, &t)
	if err == nil {
		*z = t
	}
	return err
}
