package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bizapp/internal/usecase"
)

func (a *App) runCustomer(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Err, "usage: bizapp customer add|list|search|show|update|delete")
		return ExitUsage
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return a.customerAdd(ctx, rest)
	case "list":
		return a.customerList(ctx, rest, "")
	case "search":
		if len(rest) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp customer search <query>")
			return ExitUsage
		}
		return a.customerList(ctx, rest[1:], rest[0])
	case "show":
		return a.customerShow(ctx, rest)
	case "update":
		return a.customerUpdate(ctx, rest)
	case "delete":
		return a.customerDelete(ctx, rest)
	default:
		fmt.Fprintf(a.Err, "unknown customer command: %s\n", sub)
		return ExitUsage
	}
}

func customerFlags(fs *flag.FlagSet) *usecase.CustomerInput {
	in := &usecase.CustomerInput{}
	fs.StringVar(&in.Name, "name", "", "customer name (required)")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Address, "address", "", "postal address")
	return in
}

func (a *App) customerAdd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("customer add", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	in := customerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	id, err := a.Customers.Create(ctx, *in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "customer %d created\n", id)
	return ExitOK
}

func (a *App) customerList(ctx context.Context, args []string, q string) int {
	fs := flag.NewFlagSet("customer list", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Customers.List(ctx, usecase.ListCustomersInput{
		Page:  *page,
		Limit: *limit,
		Q:     q,
	})
	if err != nil {
		return a.writeError(err)
	}

	tw := newTable(a.Out)
	row(tw, "ID", "NAME", "PHONE", "EMAIL")
	for _, c := range out.Items {
		row(tw, c.ID, c.Name, c.Phone, c.Email)
	}
	tw.Flush()
	fmt.Fprintf(a.Out, "%d of %d\n", len(out.Items), out.Total)
	return ExitOK
}

func (a *App) customerShow(ctx context.Context, args []string) int {
	id, ok := parseID(a.Err, args, "bizapp customer show <id>")
	if !ok {
		return ExitUsage
	}

	c, err := a.Customers.Get(ctx, id)
	if err != nil {
		return a.writeError(err)
	}

	printJSON(a.Out, c)
	return ExitOK
}

func (a *App) customerUpdate(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.Err, "usage: bizapp customer update <id> [flags]")
		return ExitUsage
	}
	id, ok := parseID(a.Err, args[:1], "bizapp customer update <id> [flags]")
	if !ok {
		return ExitUsage
	}

	fs := flag.NewFlagSet("customer update", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	in := customerFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return ExitUsage
	}

	if err := a.Customers.Update(ctx, id, *in); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "customer %d updated\n", id)
	return ExitOK
}

func (a *App) customerDelete(ctx context.Context, args []string) int {
	id, ok := parseID(a.Err, args, "bizapp customer delete <id>")
	if !ok {
		return ExitUsage
	}

	if err := a.Customers.Delete(ctx, id); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "customer %d deleted\n", id)
	return ExitOK
}

// 先頭の位置引数をint64のIDとして読む
func parseID(errW io.Writer, args []string, usage string) (int64, bool) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintf(errW, "usage: %s\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(errW, "invalid id: %s\n", args[0])
		return 0, false
	}
	return id, true
}
