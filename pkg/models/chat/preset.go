package chat

// Texts are the fixed strings a widget shows
type Texts struct {
	Welcome       string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Apology       string `json:"apology,omitempty" yaml:"apology,omitempty"`
	Thinking      string `json:"thinking,omitempty" yaml:"thinking,omitempty"`
	HistoryDenied string `json:"historyDenied,omitempty" yaml:"historyDenied,omitempty"`
	HistoryEmpty  string `json:"historyEmpty,omitempty" yaml:"historyEmpty,omitempty"`
	HistoryFailed string `json:"historyFailed,omitempty" yaml:"historyFailed,omitempty"`
	HistoryHeader string `json:"historyHeader,omitempty" yaml:"historyHeader,omitempty"` // with %d for count
	HistoryHint   string `json:"historyHint,omitempty" yaml:"historyHint,omitempty"`
}

// DefaultTexts ...
func DefaultTexts() Texts {
	return Texts{
		Welcome:       "Hello! I'm your AI teaching assistant for INFO 6200. Ask me any questions about Python coding and course content!",
		Apology:       "I apologize, but I encountered an error. Please try again.",
		Thinking:      "Thinking",
		HistoryDenied: "History is only available for registered users. Please create an account to save your conversations.",
		HistoryEmpty:  "No saved conversations yet! Start chatting to build your history.",
		HistoryFailed: "Failed to load conversation history. Please try again.",
		HistoryHeader: "Your Conversation History (%d saved conversations)",
		HistoryHint:   `Click "Clear Chat" to start a new conversation`,
	}
}

// Merge fills the empty fields of z from o
func (z Texts) Merge(o Texts) Texts {
	pick := func(a, b string) string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return Texts{
		Welcome:       pick(z.Welcome, o.Welcome),
		Apology:       pick(z.Apology, o.Apology),
		Thinking:      pick(z.Thinking, o.Thinking),
		HistoryDenied: pick(z.HistoryDenied, o.HistoryDenied),
		HistoryEmpty:  pick(z.HistoryEmpty, o.HistoryEmpty),
		HistoryFailed: pick(z.HistoryFailed, o.HistoryFailed),
		HistoryHeader: pick(z.HistoryHeader, o.HistoryHeader),
		HistoryHint:   pick(z.HistoryHint, o.HistoryHint),
	}
}

// Preset is loaded from a yaml file
type Preset struct {
	SystemPrompt string  `json:"systemPrompt,omitempty" yaml:"systemPrompt,omitempty"`
	Model        string  `json:"model,omitempty" yaml:"model,omitempty"`
	MaxTokens    int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	Temperature  float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	Texts Texts `json:"texts,omitempty" yaml:"texts,omitempty"`
}
