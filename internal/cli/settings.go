package cli

import (
	"context"
	"fmt"
)

func (a *App) runSettings(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Err, "usage: bizapp settings get|set|list")
		return ExitUsage
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "get":
		if len(rest) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp settings get <key>")
			return ExitUsage
		}
		s, err := a.Settings.Get(ctx, rest[0])
		if err != nil {
			return a.writeError(err)
		}
		fmt.Fprintln(a.Out, s.Value)
		return ExitOK

	case "set":
		if len(rest) < 2 {
			fmt.Fprintln(a.Err, "usage: bizapp settings set <key> <value>")
			return ExitUsage
		}
		if err := a.Settings.Set(ctx, rest[0], rest[1]); err != nil {
			return a.writeError(err)
		}
		fmt.Fprintf(a.Out, "%s updated\n", rest[0])
		return ExitOK

	case "list":
		items, err := a.Settings.List(ctx)
		if err != nil {
			return a.writeError(err)
		}
		tw := newTable(a.Out)
		row(tw, "KEY", "VALUE", "DESCRIPTION")
		for _, s := range items {
			row(tw, s.Key, s.Value, s.Description)
		}
		tw.Flush()
		return ExitOK

	default:
		fmt.Fprintf(a.Err, "unknown settings command: %s\n", sub)
		return ExitUsage
	}
}
