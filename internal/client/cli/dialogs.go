package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/merchantdash/internal/client/dashboard"
)

// terminalDialogs implements dashboard.Dialogs on the REPL's input and output.
type terminalDialogs struct {
	reader *bufio.Reader
	out    io.Writer
}

var _ dashboard.Dialogs = (*terminalDialogs)(nil)

func (d *terminalDialogs) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return GetSimpleText(d.reader, message, d.out)
}

func (d *terminalDialogs) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return GetConfirm(d.reader, message, d.out)
}

func (d *terminalDialogs) Alert(_ context.Context, message string) {
	fmt.Fprintln(d.out, "[alert] "+message)
}
