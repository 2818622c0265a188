package entity

import "time"

// Dataset is a persisted upload: the stored file, its derived summary, and
// metadata. Records are immutable after creation; they only disappear through
// retention eviction.
type Dataset struct {
	ID         int64
	Name       string
	BlobKey    string
	UploadedAt time.Time
	Summary    Summary
}
