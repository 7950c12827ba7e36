package chat

// Author who wrote a message
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// IsUser ...
func (a Author) IsUser() bool {
	return a == AuthorUser
}

// Message is one rendered entry of a transcript
type Message struct {
	Content string `json:"content" yaml:"content"`
	Author  Author `json:"author,omitempty" yaml:"author,omitempty"`
}

type Messages []Message

// AskRequest is the body of POST /ask
type AskRequest struct {
	Question string `json:"question" form:"question"`
}

// AskResponse is the reply of POST /ask, only Answer is required by the widget
type AskResponse struct {
	Question  string `json:"question,omitempty"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp,omitempty"`
}
