package license

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// XXXX-XXXX-XXXX-XXXX
const keyLen = 19

// 端末を問わず通すデモ用キー。
var demoKeys = []string{
	"DEMO-KEY-1234-5678",
	"BUSINESS-APP-2024-PRO",
	"PREMIUM-LIFETIME-2024",
	"TEST-DEV-2024-KEY",
	"EDUCATION-FREE-2024",
	"ENTERPRISE-BUS-2024",
}

// DeriveKey はフィンガープリントから解除キーを作る。
// sha256の先頭16桁を4桁ずつハイフンで区切って大文字にする。発行側も同じ式を使う。
// 発行側の手入力を想定してフィンガープリントは大文字に正規化してから計算する。
func DeriveKey(fingerprint string) string {
	fingerprint = strings.ToUpper(strings.TrimSpace(fingerprint))
	sum := sha256.Sum256([]byte(fingerprint))
	hexd := hex.EncodeToString(sum[:])
	key := fmt.Sprintf("%s-%s-%s-%s", hexd[0:4], hexd[4:8], hexd[8:12], hexd[12:16])
	return strings.ToUpper(key)
}

// Validate はcodeがこの端末のキーとして有効かを返す。副作用なし。
func Validate(fingerprint string, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false
	}

	// デモキーは長さ形式より先に見る。固定長でないものが混ざっている
	for _, k := range demoKeys {
		if code == k {
			return true
		}
	}

	if len(code) != keyLen {
		return false
	}

	return code == DeriveKey(fingerprint)
}
