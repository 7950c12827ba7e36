package widget

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/liut/tutorbot/pkg/models/chat"
	"github.com/liut/tutorbot/pkg/widget/format"
)

// ids and icons of transcript nodes
const (
	TranscriptID = "chatMessages"
	ThinkingID   = "thinking-indicator"

	IconUser    = "👤"
	IconBot     = "🤖🎓"
	IconHistory = "📚"
)

// Kind of a transcript entry
type Kind int

const (
	KindMessage Kind = iota
	KindWelcome
	KindHeader
	KindSeparator
	KindThinking
)

func (k Kind) String() string {
	switch k {
	case KindWelcome:
		return "welcome"
	case KindHeader:
		return "header"
	case KindSeparator:
		return "separator"
	case KindThinking:
		return "thinking"
	default:
		return "message"
	}
}

// Entry is a transcript child seen as data
type Entry struct {
	Kind Kind
	chat.Message
}

// Observer mirrors transcript changes, calls happen with the widget lock held
type Observer interface {
	Appended(n *html.Node)
	Removed(n *html.Node)
	Cleared()
}

// Transcript is the message container, a <div id="chatMessages"> node tree.
type Transcript struct {
	root   *html.Node
	bottom *html.Node
	obs    []Observer
}

// NewTranscript returns an empty transcript
func NewTranscript(obs ...Observer) *Transcript {
	root := format.Element(atom.Div)
	root.Attr = []html.Attribute{{Key: "id", Val: TranscriptID}}
	return &Transcript{root: root, obs: obs}
}

// Root returns the container node
func (t *Transcript) Root() *html.Node { return t.root }

// LastVisible returns the node scrolled into view
func (t *Transcript) LastVisible() *html.Node { return t.bottom }

// Len returns the count of children
func (t *Transcript) Len() (n int) {
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		n++
	}
	return
}

// AddMessage appends an icon and the formatted content, then scrolls to bottom
func (t *Transcript) AddMessage(content string, isUser bool) {
	cls, icon := "message bot-message", IconBot
	if isUser {
		cls, icon = "message user-message", IconUser
	}
	t.append(messageNode(cls, icon, format.Format(content)...))
}

// ShowThinking appends the indicator. The caller keeps it single.
func (t *Transcript) ShowThinking(label string) {
	dots := withClass(format.Element(atom.Span), "thinking-dots")
	for i := 0; i < 3; i++ {
		dots.AppendChild(format.Element(atom.Span, format.Text(".")))
	}
	n := messageNode("message bot-message thinking", IconBot, format.Text(label), dots)
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: ThinkingID})
	t.append(n)
}

// RemoveThinking removes the indicator if present
func (t *Transcript) RemoveThinking() {
	n := t.Thinking()
	if n == nil {
		return
	}
	t.root.RemoveChild(n)
	for _, o := range t.obs {
		o.Removed(n)
	}
	t.scrollToBottom()
}

// Thinking returns the indicator node or nil
func (t *Transcript) Thinking() *html.Node {
	sel := t.query().Find("#" + ThinkingID)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// Clear removes every child
func (t *Transcript) Clear() {
	for c := t.root.FirstChild; c != nil; c = t.root.FirstChild {
		t.root.RemoveChild(c)
	}
	for _, o := range t.obs {
		o.Cleared()
	}
	t.bottom = nil
}

// AddWelcome appends the greeting
func (t *Transcript) AddWelcome(text string) {
	n := messageNode("message bot-message welcome", IconBot, format.Element(atom.P, format.Text(text)))
	t.append(n)
}

// AddHeader appends the history header with saved count
func (t *Transcript) AddHeader(texts chat.Texts, count int) {
	hint := withClass(format.Element(atom.P, format.Text(texts.HistoryHint)), "hint")
	title := format.Element(atom.Strong, format.Text(fmt.Sprintf(texts.HistoryHeader, count)))
	t.append(messageNode("message bot-message history-header", IconHistory, title, hint))
}

// AddSeparator appends a rule between conversations
func (t *Transcript) AddSeparator() {
	t.append(withClass(format.Element(atom.Div), "separator"))
}

// Entries lists children in order
func (t *Transcript) Entries() []Entry {
	var out []Entry
	t.query().Children().Each(func(_ int, s *goquery.Selection) {
		e := Entry{Kind: KindMessage}
		switch {
		case s.HasClass("separator"):
			e.Kind = KindSeparator
		case s.HasClass("thinking"):
			e.Kind = KindThinking
		case s.HasClass("welcome"):
			e.Kind = KindWelcome
		case s.HasClass("history-header"):
			e.Kind = KindHeader
		}
		if e.Kind != KindSeparator {
			e.Author = chat.AuthorBot
			if s.HasClass("user-message") {
				e.Author = chat.AuthorUser
			}
			e.Content = format.PlainText(s.Find(".message-content").Nodes...)
		}
		out = append(out, e)
	})
	return out
}

// Messages lists the question and answer messages only
func (t *Transcript) Messages() chat.Messages {
	var out chat.Messages
	for _, e := range t.Entries() {
		if e.Kind == KindMessage {
			out = append(out, e.Message)
		}
	}
	return out
}

// HTML renders the container markup
func (t *Transcript) HTML() string {
	return format.Render(t.root)
}

func (t *Transcript) query() *goquery.Selection {
	return goquery.NewDocumentFromNode(t.root).Selection
}

func (t *Transcript) append(n *html.Node) {
	t.root.AppendChild(n)
	for _, o := range t.obs {
		o.Appended(n)
	}
	t.scrollToBottom()
}

func (t *Transcript) scrollToBottom() {
	t.bottom = t.root.LastChild
}

func messageNode(cls, icon string, content ...*html.Node) *html.Node {
	n := withClass(format.Element(atom.Div,
		withClass(format.Element(atom.Div, format.Text(icon)), "message-icon"),
		withClass(format.Element(atom.Div, content...), "message-content"),
	), cls)
	return n
}

func withClass(n *html.Node, cls string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: cls})
	return n
}
