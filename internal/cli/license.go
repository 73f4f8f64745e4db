package cli

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"bizapp/internal/license"
)

var fingerprintPattern = regexp.MustCompile(`^[0-9A-F]{16}$`)

func (a *App) runLicense(ctx context.Context, cmd string, args []string) int {
	switch cmd {
	case "fingerprint":
		return a.licenseFingerprint(ctx)
	case "activate":
		if len(args) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp activate <code>")
			return ExitUsage
		}
		return a.licenseActivate(ctx, args[0])
	case "license-keygen":
		if len(args) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp license-keygen <fingerprint>")
			return ExitUsage
		}
		return a.licenseKeygen(args[0])
	case "license":
		if len(args) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp license status|deactivate")
			return ExitUsage
		}
		switch args[0] {
		case "status":
			return a.licenseStatus(ctx)
		case "deactivate":
			return a.licenseDeactivate(ctx)
		default:
			fmt.Fprintf(a.Err, "unknown license command: %s\n", args[0])
			return ExitUsage
		}
	}
	return ExitUsage
}

func (a *App) licenseFingerprint(ctx context.Context) int {
	st, err := a.License.Status(ctx)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintln(a.Out, st.Fingerprint)
	return ExitOK
}

func (a *App) licenseActivate(ctx context.Context, code string) int {
	if err := a.License.Activate(ctx, code); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintln(a.Out, "license activated")
	return ExitOK
}

// 発行側のツール。DBには触らない
func (a *App) licenseKeygen(fp string) int {
	fp = strings.ToUpper(strings.TrimSpace(fp))
	if !fingerprintPattern.MatchString(fp) {
		fmt.Fprintln(a.Err, "error: fingerprint must be 16 hex chars")
		return ExitUsage
	}

	fmt.Fprintln(a.Out, license.DeriveKey(fp))
	return ExitOK
}

func (a *App) licenseStatus(ctx context.Context) int {
	st, err := a.License.Status(ctx)
	if err != nil {
		return a.writeError(err)
	}

	printJSON(a.Out, st)
	return ExitOK
}

func (a *App) licenseDeactivate(ctx context.Context) int {
	if err := a.License.Deactivate(ctx); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintln(a.Out, "license removed")
	return ExitOK
}
