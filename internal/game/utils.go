package game

import (
	"slices"
	"strings"
)

func normalizeWord(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func containsID(ids []string, id string) bool {
	return id != "" && slices.Contains(ids, id)
}
