package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/liut/tutorbot/pkg/widget"
)

// commands typed at the prompt
const (
	CmdHistory = "/history"
	CmdClear   = "/clear"
	CmdQuit    = "/quit"
	CmdHelp    = "/help"

	prompt = "> "
)

// Run reads lines from in until EOF, /quit or ctx is done. Each line is a
// question unless it is a command.
func Run(ctx context.Context, w *widget.Widget, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case CmdQuit, "/exit":
			return nil
		case CmdHelp:
			printHelp(out, w.HistoryEnabled())
		case CmdClear:
			w.Clear()
		case CmdHistory:
			task := w.LoadHistory(ctx)
			if task == nil {
				fmt.Fprintln(out, "history needs a registered account, start with --email")
				continue
			}
			_ = task.Wait()
		default:
			// errors are already shown in the transcript
			_ = w.Ask(ctx, line).Wait()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func printHelp(out io.Writer, history bool) {
	fmt.Fprintln(out, "Type a question and press enter.")
	if history {
		fmt.Fprintf(out, "  %-10s show saved conversations\n", CmdHistory)
	}
	fmt.Fprintf(out, "  %-10s clear the screen transcript\n", CmdClear)
	fmt.Fprintf(out, "  %-10s leave\n", CmdQuit)
}
