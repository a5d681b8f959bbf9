package util

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

// ParseUintOrZero 将字符串转换为无符号整数，解析失败时返回 0
func ParseUintOrZero(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// GenerateRandomString 生成 n 个字符的十六进制随机串
func GenerateRandomString(n int) string {
	b := make([]byte, (n+1)/2)
	rand.Read(b)
	return hex.EncodeToString(b)[:n]
}
