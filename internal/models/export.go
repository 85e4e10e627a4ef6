package models

import "time"

// ExportedObject is an immutable object addressed by key alone.
type ExportedObject struct {
	Key         string
	Content     []byte
	ContentType string
	CreatedAt   time.Time
}
