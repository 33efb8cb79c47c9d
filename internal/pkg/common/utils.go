package common

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// TimeBasedID 以毫秒時間戳產生識別碼
func TimeBasedID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// SplitCSV 以逗號切分並去除空白項目
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate 截斷過長字串，用於日誌；max 以位元組計，不會切開多位元組字元
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
