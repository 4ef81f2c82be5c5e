package models

import (
	"time"
)

// Document is one uploaded file. Bytes live in the blob store under StoragePath.
type Document struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	StoredName          string     `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	StoragePath         string     `gorm:"size:500;not null" json:"-"`
	OriginalName        string     `gorm:"size:255;not null" json:"original_filename"`
	FileSize            int64      `gorm:"not null" json:"file_size"`
	ContentType         string     `gorm:"size:100" json:"content_type"`
	ContentHash         string     `gorm:"size:32;not null;uniqueIndex" json:"md5_hash"`
	RemoteFileID        *string    `gorm:"size:500" json:"remote_file_id"`
	RemoteFileExpiresAt *time.Time `json:"remote_file_expires_at,omitempty"`
	PageCount           *int       `json:"page_count,omitempty"`
	CreatedAt           time.Time  `gorm:"index" json:"upload_date"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (Document) TableName() string {
	return "files"
}

// HasRemoteReference reports whether the document was already uploaded to the provider.
func (d *Document) HasRemoteReference() bool {
	return d.RemoteFileID != nil && *d.RemoteFileID != ""
}

// RemoteReferenceUsable reports whether the remote copy can still be referenced
// at now and stays available for at least margin. A reference without an
// expiry never expires.
func (d *Document) RemoteReferenceUsable(now time.Time, margin time.Duration) bool {
	if !d.HasRemoteReference() {
		return false
	}
	if d.RemoteFileExpiresAt == nil {
		return true
	}
	return d.RemoteFileExpiresAt.After(now.Add(margin))
}
