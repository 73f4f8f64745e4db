package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"bizapp/internal/backup"
	"bizapp/internal/cli"
	"bizapp/internal/config"
	"bizapp/internal/infra/db"
	infraRepo "bizapp/internal/infra/repository"
	"bizapp/internal/license"
	"bizapp/internal/usecase"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// この端末のフィンガープリントとキー検証
type machineGate struct{}

func (machineGate) Fingerprint() string {
	return license.Fingerprint()
}

func (machineGate) Validate(fingerprint string, code string) bool {
	return license.Validate(fingerprint, code)
}

// バックアップ前のWALチェックポイント
type walCheckpointer struct {
	gdb *gorm.DB
}

func (c *walCheckpointer) Checkpoint(ctx context.Context) error {
	return db.Checkpoint(ctx, c.gdb)
}

func main() {
	os.Exit(run())
}

func run() int {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return cli.ExitError
	}
	if err := cfg.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return cli.ExitError
	}

	logger, closeLog := setupLogging(cfg)
	defer closeLog()

	args := os.Args[1:]

	//restoreはファイルごと差し替えるのでDBを開く前に処理する
	if len(args) > 0 && args[0] == "restore" {
		return runRestore(cfg, args[1:], logger)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Printf("db open failed: %v", err)
		return cli.ExitError
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB); err != nil {
		logger.Printf("migrate failed: %v", err)
		return cli.ExitError
	}
	if err := db.SeedDefaults(gormDB); err != nil {
		logger.Printf("seed failed: %v", err)
		return cli.ExitError
	}

	//Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	settingsRepo := infraRepo.NewSettingsGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	gate := machineGate{}
	cp := &walCheckpointer{gdb: gormDB}

	//Usecase生成
	customerUC := usecase.NewCustomerUsecase(customerRepo, orderRepo, clock)
	productUC := usecase.NewProductUsecase(txManager, productRepo, inventoryRepo, clock)
	orderUC := usecase.NewOrderUsecase(txManager, clock)
	settingsUC := usecase.NewSettingsUsecase(settingsRepo)
	licenseUC := usecase.NewLicenseUsecase(settingsRepo, gate)
	backupUC := usecase.NewBackupUsecase(cfg.DBFile, cfg.BackupDir, settingsRepo, cp, clock)

	app := &cli.App{
		Customers: customerUC,
		Products:  productUC,
		Orders:    orderUC,
		Settings:  settingsUC,
		License:   licenseUC,
		Backup:    backupUC,
		DBInfo: func(ctx context.Context) (db.DBInfo, error) {
			return db.Info(ctx, gormDB, cfg.DBFile)
		},
		Out: os.Stdout,
		Err: os.Stderr,
	}

	ctx := context.Background()

	cmdName := ""
	if len(args) > 0 {
		cmdName = args[0]
	}

	//データ系コマンドはライセンス必須
	if cli.NeedsLicense(cmdName) {
		if err := licenseUC.Require(ctx); err != nil {
			logger.Printf("license check failed: %v", err)
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			//解除キーの発行にはこの値が必要
			fmt.Fprintf(os.Stderr, "machine fingerprint: %s\n", gate.Fingerprint())
			fmt.Fprintln(os.Stderr, "run: bizapp activate <code>")
			return cli.ExitLicense
		}

		//期限が来ていれば自動バックアップ（失敗しても処理は続ける）
		if path, ran, err := backupUC.AutoBackupIfDue(ctx); err != nil {
			logger.Printf("auto backup failed: %v", err)
		} else if ran {
			logger.Printf("auto backup: %s", path)
		}
	}

	return app.Run(ctx, args)
}

// restoreはDBハンドルが無い状態で行う
func runRestore(cfg config.Config, args []string, logger *log.Logger) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: bizapp restore <file>")
		return cli.ExitUsage
	}

	if err := backup.Restore(args[0], cfg.DBFile); err != nil {
		logger.Printf("restore failed: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitError
	}

	logger.Printf("database restored from %s", args[0])
	fmt.Fprintf(os.Stdout, "database restored from %s\n", args[0])
	return cli.ExitOK
}

// 標準エラーと日付付きログファイルの両方へ書く。
// ファイルが開けなくても標準エラーだけで続行する
func setupLogging(cfg config.Config) (*log.Logger, func()) {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	closeLog := func() {}

	name := fmt.Sprintf("bizapp_%s.log", time.Now().Format("20060102"))
	f, err := os.OpenFile(filepath.Join(cfg.LogDir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Printf("log file: %v", err)
		return logger, closeLog
	}

	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	closeLog = func() { f.Close() }
	return logger, closeLog
}
