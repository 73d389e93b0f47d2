package clipboard

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// OSC52 writes the clipboard escape sequence to a terminal.
type OSC52 struct {
	Out io.Writer
}

// WriteText implements Writer.
func (o OSC52) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

// TerminalDetector treats an attached terminal as the secure context: the
// escape sequence is only trusted when it cannot end up in a file or pipe.
// TERM=dumb disables the native path.
func TerminalDetector(f *os.File) Detector {
	return func() Capabilities {
		if f == nil {
			return Capabilities{}
		}
		return Capabilities{
			SecureContext: term.IsTerminal(int(f.Fd())),
			Native:        os.Getenv("TERM") != "dumb",
		}
	}
}
