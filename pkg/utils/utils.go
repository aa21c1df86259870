// Package utils 提供哈希与摘要工具
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

func sha256Hex(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Digest 对象 JSON 编码后的 SHA256 摘要。结构体字段顺序固定，摘要对同一取值稳定。
func Digest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal for digest: %w", err)
	}
	return sha256Hex(data), nil
}

// FNV32a 计算字符串的 FNV-1a 32 位哈希
func FNV32a(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
