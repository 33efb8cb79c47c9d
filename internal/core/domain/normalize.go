package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold 回傳用於比對的大小寫摺疊字串
func Fold(s string) string {
	// cases.Caser 非併發安全，每次建立
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold 大小寫不敏感比較
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// NormalizeNames 去除空白、空值與重複（大小寫不敏感，保留第一次出現的寫法）
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := Fold(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
