package entity

import (
	"strings"
	"time"
)

type User struct {
	ID        uint
	Username  string
	CreatedAt time.Time
}

// UsernameKey is the case-insensitive lookup form of a username.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
