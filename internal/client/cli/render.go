package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/merchantdash/internal/client/dashboard"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

var headings = map[string]string{
	dashboard.PrincipalID:     "",
	dashboard.MerchantDetails: "Merchant",
	dashboard.TransactionList: "Transactions",
	dashboard.QRCode:          "Payment",
}

// sanitize drops control characters so canister-supplied text cannot drive
// the terminal.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

func heading(s string, bold bool) string {
	if bold {
		return "\033[1m" + s + "\033[0m"
	}
	return s
}

// renderPage writes the visible content areas of elements to w.
func renderPage(w io.Writer, elements []dashboard.Element, visible func(id string) bool, bold bool) {
	for _, e := range elements {
		title, ok := headings[e.ID]
		if !ok || !visible(e.ID) {
			continue
		}
		if e.Text == "" && len(e.Paragraphs) == 0 && title == "" {
			continue
		}

		if title != "" {
			fmt.Fprintln(w, heading("== "+title+" ==", bold))
		}
		if e.Text != "" {
			fmt.Fprintln(w, sanitize(e.Text))
		}
		if title != "" && len(e.Paragraphs) == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		for _, p := range e.Paragraphs {
			fmt.Fprintln(w, "  "+sanitize(p))
		}
	}
}

func stdoutIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
