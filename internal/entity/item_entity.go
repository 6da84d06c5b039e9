package entity

import (
	"strings"
	"time"
)

type Item struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"-"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	DateAdded  time.Time  `json:"date_added"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// ItemKey is the identity used to match items: trimmed and lowercased.
func ItemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
