package license

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// Fingerprint は端末ごとに決まる識別子を返す。
// プライマリMAC + OS + アーキ + ホスト名をsha256して先頭16桁。
// MACが取れない環境ではuuid側が安定したランダム値で代替する。
func Fingerprint() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	node := uuid.NodeID()
	combined := fmt.Sprintf("%x%s%s%s", node, runtime.GOOS, runtime.GOARCH, host)

	sum := sha256.Sum256([]byte(combined))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:16])
}
