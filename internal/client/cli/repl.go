package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Merchant(ctx context.Context) error
	Update(ctx context.Context) error
	Amount(ctx context.Context, value string) error
	QR(ctx context.Context) error
	Transactions(ctx context.Context) error
	Show(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit", and
// writes prompts and messages to out.
//
// Commands:
//
//	Not logged in:
//	  - help             show available commands
//	  - login            log in through the identity provider
//	  - show             render the dashboard
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - whoami           print the principal
//	  - merchant         reload the merchant profile
//	  - update           edit the merchant profile
//	  - amount <value>   set the payment amount
//	  - qr [amount]      generate the payment QR placeholder
//	  - tx               refresh the transaction log now
//	  - show             render the dashboard
//	  - logout           log out
//	  - exit | quit      leave the program
//
// The page is rendered after every command that may change it. Command
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		printlnFn(out, fmt.Sprintf("md> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var cmdErr error
		render := true

		switch cmd {
		case "help":
			render = false
			if a.isLoggedIn() {
				printlnFn(out, "Available commands: whoami, merchant, update, amount <value>, qr [amount], tx, show, logout, exit")
			} else {
				printlnFn(out, "Available commands: login, show, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			render = false
			cmdErr = a.WhoAmI(ctx)

		case "merchant":
			cmdErr = a.Merchant(ctx)

		case "update":
			cmdErr = a.Update(ctx)

		case "amount":
			if len(args) > 1 {
				render = false
				printlnFn(out, "Usage: amount <value>")
				break
			}
			cmdErr = a.Amount(ctx, strings.Join(args, ""))

		case "qr":
			if len(args) > 1 {
				render = false
				printlnFn(out, "Usage: qr [amount]")
				break
			}
			if len(args) == 1 {
				if cmdErr = a.Amount(ctx, args[0]); cmdErr != nil {
					break
				}
			}
			cmdErr = a.QR(ctx)

		case "tx":
			cmdErr = a.Transactions(ctx)

		case "show":

		case "exit", "quit":
			printlnFn(out, "Bye!")
			return

		default:
			render = false
			printlnFn(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(out, "Error:", cmdErr)
		}
		if render {
			_ = a.Show(ctx)
		}
		if err != nil {
			return
		}
	}
}
