package cli

import (
	"context"
	"fmt"
	"io"

	"bizapp/internal/infra/db"
	"bizapp/internal/usecase"
)

// 終了コード。エラー種別と1対1で対応させる
const (
	ExitOK       = 0
	ExitError    = 1 // storage・内部エラー
	ExitUsage    = 2 // 引数・入力不正
	ExitConflict = 3
	ExitNotFound = 4
	ExitLicense  = 5
)

// Appはコマンドが使うusecase一式
type App struct {
	Customers *usecase.CustomerUsecase
	Products  *usecase.ProductUsecase
	Orders    *usecase.OrderUsecase
	Settings  *usecase.SettingsUsecase
	License   *usecase.LicenseUsecase
	Backup    *usecase.BackupUsecase

	// infoコマンド用（mainがDBハンドルを閉じ込めて渡す）
	DBInfo func(ctx context.Context) (db.DBInfo, error)

	Out io.Writer
	Err io.Writer
}

// NeedsLicense はライセンスゲートの対象コマンドかどうか。
// 解除用のコマンドは未解除でも届かないと意味がない
func NeedsLicense(cmd string) bool {
	switch cmd {
	case "", "help", "fingerprint", "activate", "license-keygen", "license":
		return false
	}
	return true
}

// Run はサブコマンドを実行して終了コードを返す
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help":
		a.usage()
		return ExitOK
	case "customer":
		return a.runCustomer(ctx, rest)
	case "product":
		return a.runProduct(ctx, rest)
	case "order":
		return a.runOrder(ctx, rest)
	case "settings":
		return a.runSettings(ctx, rest)
	case "fingerprint", "activate", "license-keygen", "license":
		return a.runLicense(ctx, cmd, rest)
	case "backup":
		return a.runBackup(ctx, rest)
	case "info":
		return a.runInfo(ctx)
	default:
		fmt.Fprintf(a.Err, "unknown command: %s\n", cmd)
		a.usage()
		return ExitUsage
	}
}

// エラー種別を終了コードとメッセージへ落とす
func (a *App) writeError(err error) int {
	if err == nil {
		return ExitOK
	}

	if ae, ok := usecase.AsAppError(err); ok {
		fmt.Fprintf(a.Err, "error: %s\n", ae.Message)
		switch ae.Kind {
		case usecase.KindValidation:
			return ExitUsage
		case usecase.KindConflict:
			return ExitConflict
		case usecase.KindNotFound:
			return ExitNotFound
		case usecase.KindLicense:
			return ExitLicense
		}
		return ExitError
	}

	fmt.Fprintf(a.Err, "error: %v\n", err)
	return ExitError
}

func (a *App) usage() {
	fmt.Fprint(a.Err, `usage: bizapp <command> [arguments]

license:
  fingerprint                     print this machine's fingerprint
  activate <code>                 store the activation code
  license-keygen <fingerprint>    derive the code for a fingerprint (issuer side)
  license status                  show activation state
  license deactivate              remove the stored code

data:
  customer add|list|search|show|update|delete
  product  add|list|search|show|update|delete|low-stock|adjust-stock|movements
  order    add|list|unpaid|show|add-item|remove-item|set-qty|pay|cancel
  settings get|set|list

maintenance:
  backup                          copy the database to the backup dir
  restore <file>                  replace the database with a backup
  info                            table counts and database size
`)
}
