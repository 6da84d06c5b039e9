package service

import (
	"strings"
	"time"
)

const defaultShelfLifeDays = 7

// shelfLifeDays is checked in order. An entry matches when either the keyword
// appears in the item name or the name appears in the keyword ("egg" -> "eggs").
var shelfLifeDays = []struct {
	keyword string
	days    int
}{
	{"milk", 7},
	{"yogurt", 14},
	{"cheese", 21},
	{"eggs", 21},
	{"butter", 30},
	{"apple", 14},
	{"banana", 5},
	{"orange", 14},
	{"tomato", 7},
	{"lettuce", 7},
	{"cucumber", 7},
	{"carrot", 21},
	{"chicken", 3},
	{"beef", 3},
	{"fish", 2},
	{"leftover", 3},
	{"juice", 7},
	{"soda", 180},
	{"bread", 7},
	{"cake", 4},
}

func ShelfLife(name string) time.Duration {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range shelfLifeDays {
		if strings.Contains(key, entry.keyword) || (key != "" && strings.Contains(entry.keyword, key)) {
			return time.Duration(entry.days) * 24 * time.Hour
		}
	}
	return defaultShelfLifeDays * 24 * time.Hour
}
