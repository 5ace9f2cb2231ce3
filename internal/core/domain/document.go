package domain

import "time"

// DocumentRecord is the metadata entry for an uploaded project document.
// The blob itself lives in external storage, referenced by StorageKey.
type DocumentRecord struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ProjectID   string    `json:"project_id" bson:"project_id"`
	FileName    string    `json:"file_name" bson:"file_name"`
	ContentType string    `json:"content_type" bson:"content_type"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	StorageKey  string    `json:"storage_key" bson:"storage_key"`
	UploadedBy  string    `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
