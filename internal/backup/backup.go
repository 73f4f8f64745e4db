package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup はDBファイルをタイムスタンプ付きの名前でbackupDirへコピーし、
// 作成したファイルのパスを返す。失敗時は中途半端なコピーを消して元は触らない。
func Backup(dbFile string, backupDir string, now time.Time) (string, error) {
	if _, err := os.Stat(dbFile); err != nil {
		return "", fmt.Errorf("database file not found: %s", dbFile)
	}

	name := fmt.Sprintf("business_backup_%s.db", now.Format("20060102_150405"))
	target := filepath.Join(backupDir, name)

	if err := copyFile(dbFile, target); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("backup copy: %w", err)
	}

	return target, nil
}

// Restore はバックアップファイルでDBファイルを置き換える。
// DBハンドルを閉じてから呼ぶこと。一時ファイル経由のrenameで差し替える。
func Restore(backupFile string, dbFile string) error {
	if _, err := os.Stat(backupFile); err != nil {
		return fmt.Errorf("backup file not found: %s", backupFile)
	}

	tmp := dbFile + ".restore"
	if err := copyFile(backupFile, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("restore copy: %w", err)
	}

	if err := os.Rename(tmp, dbFile); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("restore rename: %w", err)
	}

	//古いWAL/SHMが残っていると復元内容を上書きしてしまう
	os.Remove(dbFile + "-wal")
	os.Remove(dbFile + "-shm")

	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
