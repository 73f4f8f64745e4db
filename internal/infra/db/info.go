package db

import (
	"context"
	"os"

	"gorm.io/gorm"
)

type TableCount struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

type DBInfo struct {
	Path      string       `json:"path"`
	SizeBytes int64        `json:"size_bytes"`
	Tables    []TableCount `json:"tables"`
}

// Info はテーブルごとの件数とファイルサイズを返す。
func Info(ctx context.Context, gdb *gorm.DB, dbFile string) (DBInfo, error) {
	var names []string
	err := gdb.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&names).Error
	if err != nil {
		return DBInfo{}, err
	}

	tables := make([]TableCount, 0, len(names))
	for _, n := range names {
		var count int64
		if err := gdb.WithContext(ctx).Table(n).Count(&count).Error; err != nil {
			return DBInfo{}, err
		}
		tables = append(tables, TableCount{Name: n, Rows: count})
	}

	//WAL分は含まない。チェックポイント後の本体サイズ
	var size int64
	if st, err := os.Stat(dbFile); err == nil {
		size = st.Size()
	}

	return DBInfo{
		Path:      dbFile,
		SizeBytes: size,
		Tables:    tables,
	}, nil
}
