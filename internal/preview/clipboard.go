package preview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/Zachkp/portfolio/internal/shell"
)

// OSC52 returns a clipboard that asks the terminal to set the system
// clipboard with an OSC 52 escape written to w. Inside tmux or screen the
// sequence is wrapped so it reaches the outer terminal.
func OSC52(w io.Writer) shell.Clipboard {
	return shell.ClipboardFunc(func(_ context.Context, text string) error {
		seq := osc52.New(text)
		switch {
		case os.Getenv("TMUX") != "":
			seq = seq.Tmux()
		case os.Getenv("STY") != "":
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(w); err != nil {
			return fmt.Errorf("%w: %w", shell.ErrClipboardDenied, err)
		}
		return nil
	})
}
