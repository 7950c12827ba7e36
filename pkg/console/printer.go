// Package console runs a chat widget in a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/liut/tutorbot/pkg/widget"
)

const separatorLine = "────────────────────────────────"

func logger() *zap.SugaredLogger {
	return zap.S()
}

// Printer writes transcript changes as markdown. It is a widget.Observer.
type Printer struct {
	out  io.Writer
	conv *md.Converter
}

var _ widget.Observer = (*Printer)(nil)

// NewPrinter ...
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, conv: md.NewConverter("", true, nil)}
}

func (p *Printer) Appended(n *html.Node) {
	sel := goquery.NewDocumentFromNode(n).Selection
	if sel.HasClass("separator") {
		fmt.Fprintln(p.out, separatorLine)
		return
	}
	icon := sel.Find(".message-icon").Text()
	if sel.HasClass("thinking") {
		fmt.Fprintf(p.out, "%s %s\n", icon, sel.Find(".message-content").Text())
		return
	}
	inner, err := sel.Find(".message-content").Html()
	if err != nil {
		logger().Infow("render content fail", "err", err)
		return
	}
	text, err := p.conv.ConvertString(inner)
	if err != nil {
		logger().Infow("convert markdown fail", "err", err)
		text = sel.Find(".message-content").Text()
	}
	fmt.Fprintf(p.out, "%s %s\n\n", icon, strings.TrimSpace(text))
}

func (p *Printer) Removed(n *html.Node) {}

func (p *Printer) Cleared() {
	fmt.Fprintln(p.out)
}
