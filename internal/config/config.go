package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Configはアプリ全体の設定
type Config struct {
	DataDir   string // アプリデータの置き場所
	DBFile    string // SQLiteファイルのフルパス
	BackupDir string // バックアップの出力先
	LogDir    string // ログの出力先

	BusinessName string // 画面・infoに出す事業者名の初期値
}

// Loadは環境変数（.envはmain側でgodotenvが読み込む）
func Load() (Config, error) {
	dataDir := os.Getenv("BIZAPP_DATA_DIR")
	if dataDir == "" {
		d, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = d
	}

	cfg := Config{
		DataDir:   dataDir,
		DBFile:    getenv("BIZAPP_DB_FILE", filepath.Join(dataDir, "business.db")),
		BackupDir: getenv("BIZAPP_BACKUP_DIR", filepath.Join(dataDir, "backup")),
		LogDir:    getenv("BIZAPP_LOG_DIR", filepath.Join(dataDir, "logs")),

		BusinessName: getenv("BIZAPP_BUSINESS_NAME", "Business Management App"),
	}

	return cfg, nil
}

// EnsureDirsは必要なディレクトリを作る
func (c Config) EnsureDirs() error {
	dirs := []string{c.DataDir, filepath.Dir(c.DBFile), c.BackupDir, c.LogDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", d, err)
		}
	}
	return nil
}

// ユーザーごとのアプリデータディレクトリ。
// Windowsは %APPDATA%\BizApp、それ以外は ~/.local/share/bizapp
func defaultDataDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, "BizApp"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "bizapp"), nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
