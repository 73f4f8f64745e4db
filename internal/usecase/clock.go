package usecase

import "time"

// 現在の時間
type Clock interface {
	Now() time.Time
}
