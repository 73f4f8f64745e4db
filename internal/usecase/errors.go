package usecase

import (
	"errors"
	"fmt"
)

// エラーの種別。CLIはこれで終了コードとメッセージを決める。
type ErrKind string

const (
	KindValidation ErrKind = "validation" // 入力が不正。状態は変えない
	KindConflict   ErrKind = "conflict"   // 今の状態では実行できない。状態は変えない
	KindStorage    ErrKind = "storage"    // DB・ファイル側の失敗
	KindLicense    ErrKind = "license"    // ライセンス未解除。起動時に致命
	KindNotFound   ErrKind = "not_found"  // 対象が存在しない
)

type AppError struct {
	Kind    ErrKind
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewAppError(kind ErrKind, message string) error {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

func NewValidationError(message string) error {
	return NewAppError(KindValidation, message)
}

func NewConflictError(message string) error {
	return NewAppError(KindConflict, message)
}

func NewStorageError(message string) error {
	return NewAppError(KindStorage, message)
}

func NewLicenseError(message string) error {
	return NewAppError(KindLicense, message)
}

func NewNotFoundError(message string) error {
	return NewAppError(KindNotFound, message)
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsKind は種別の一致だけを見る
func IsKind(err error, kind ErrKind) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Kind == kind
}
