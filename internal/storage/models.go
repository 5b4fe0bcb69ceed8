package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by any backend when the requested disc id does not exist.
var ErrNotFound = errors.New("record not found")

// DiscRecord is a single found-disc entry.
type DiscRecord struct {
	ID           int64     `json:"id"`
	OwnerName    string    `json:"ownerName"`
	PhoneNumber  string    `json:"phoneNumber"`
	DiscType     string    `json:"discType"`
	DiscColor    string    `json:"discColor"`
	BinNumber    *int64    `json:"binNumber"`
	DateFound    time.Time `json:"dateFound"`
	IsReturned   bool      `json:"isReturned"`
	SMSDelivered bool      `json:"smsDelivered"`
}

// Stats holds aggregate counters over the discs table.
type Stats struct {
	Total    int64 `json:"total"`
	Returned int64 `json:"returned"`
	Stale    int64 `json:"stale"`
}
