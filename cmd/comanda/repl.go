package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/smartprint/comanda/internal/app"
	"github.com/smartprint/comanda/internal/domain"
)

const replHelp = `Commands:
  add <qty> <price> <name...>     add an item to the cart
  remove <id>                     remove an item (no-op if absent)
  items                           list the cart
  total                           show the running cart total
  send <table> [customer...]      submit the cart as an order
  clear                           clear the cart
  history                         list recent delivered orders
  status                          show connection state
  help                            show this help
  quit                            exit`

// consoleNotifier prints lifecycle events to the terminal. It stands in
// for the toast display of a graphical client.
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out}
}

func (n *consoleNotifier) Notify(event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "* %s: %s\n", event.Title, event.Detail)
}

// repl is a line-based prompt driving the application core. It is the
// stand-in for the client UI; rendering niceties are out of scope.
type repl struct {
	app *app.App
	in  io.Reader
	out io.Writer
}

func newREPL(a *app.App, in io.Reader, out io.Writer) *repl {
	return &repl{app: a, in: in, out: out}
}

// run reads commands until EOF, "quit", or context cancellation.
func (r *repl) run(ctx context.Context) {
	fmt.Fprintln(r.out, replHelp)

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			r.add(fields[1:])
		case "remove":
			r.remove(fields[1:])
		case "items":
			r.items()
		case "total":
			fmt.Fprintf(r.out, "total: %s\n", r.app.Cart().Total().String())
		case "send":
			r.send(ctx, fields[1:])
		case "clear":
			r.app.ClearForm()
		case "history":
			r.history()
		case "status":
			fmt.Fprintf(r.out, "connection: %s\n", r.app.ConnectionState())
		case "help":
			fmt.Fprintln(r.out, replHelp)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(r.out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func (r *repl) add(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(r.out, "usage: add <qty> <price> <name...>")
		return
	}
	qty, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "bad quantity %q\n", args[0])
		return
	}
	price, err := decimal.NewFromString(args[1])
	if err != nil {
		fmt.Fprintf(r.out, "bad price %q\n", args[1])
		return
	}
	name := strings.Join(args[2:], " ")

	if _, err := r.app.AddItem(name, qty, price); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
}

func (r *repl) remove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: remove <id>")
		return
	}
	r.app.RemoveItem(args[0])
}

func (r *repl) items() {
	items := r.app.Cart().Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, "cart is empty")
		return
	}
	for _, item := range items {
		fmt.Fprintf(r.out, "%s  %dx %s @ %s = %s\n",
			item.ID, item.Quantity, item.Name,
			item.UnitPrice.StringFixed(2), item.Subtotal().String())
	}
}

func (r *repl) send(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "usage: send <table> [customer...]")
		return
	}
	table, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(r.out, "bad table %q\n", args[0])
		return
	}
	customer := strings.Join(args[1:], " ")

	res, err := r.app.SubmitOrder(table, customer)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}

	// Wait for the single resolution; there is no cancelling an in-flight
	// submission, so a canceled context just stops the prompt.
	select {
	case result := <-res:
		if result.Err != nil {
			fmt.Fprintf(r.out, "delivery failed: %v\n", result.Err)
			return
		}
		fmt.Fprintf(r.out, "delivered order #%d (total %s)\n",
			result.Order.ID, result.Order.Total.StringFixed(2))
	case <-ctx.Done():
	}
}

func (r *repl) history() {
	entries := r.app.History().All()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no orders sent yet")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(r.out, "#%d  table %d  %s  %d item(s)  total %s  %s\n",
			e.Order.ID, e.Order.Table, e.Order.Customer,
			len(e.Order.Items), e.Order.Total.StringFixed(2),
			e.RecordedAt.Format("15:04 02/01/2006"))
	}
}
