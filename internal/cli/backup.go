package cli

import (
	"context"
	"fmt"
)

func (a *App) runBackup(ctx context.Context, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(a.Err, "usage: bizapp backup")
		return ExitUsage
	}

	path, err := a.Backup.Backup(ctx)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "database backed up to %s\n", path)
	return ExitOK
}

func (a *App) runInfo(ctx context.Context) int {
	info, err := a.DBInfo(ctx)
	if err != nil {
		fmt.Fprintf(a.Err, "error: %v\n", err)
		return ExitError
	}

	tw := newTable(a.Out)
	row(tw, "TABLE", "ROWS")
	for _, t := range info.Tables {
		row(tw, t.Name, t.Rows)
	}
	tw.Flush()
	fmt.Fprintf(a.Out, "database: %s (%d bytes)\n", info.Path, info.SizeBytes)
	return ExitOK
}
