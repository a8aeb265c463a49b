// Package recovery contains the data models for archived-page metadata recovery.
package recovery

import "time"

// Snapshot is an immutable reference to one archived capture of a URL.
// Produced by the CDX discovery client and consumed read-only by the
// extraction pipeline.
type Snapshot struct {
	// Timestamp is the capture time in the archive's 14-digit
	// YYYYMMDDhhmmss format.
	Timestamp string

	// WaybackURL is the replay URL for the capture.
	WaybackURL string
}

// RecoveredVideoData is a sparse record of video metadata recovered from a
// single snapshot. Every field except SnapshotTimestamp is optional; a record
// with no optional field set means the snapshot yielded no usable data.
type RecoveredVideoData struct {
	Title           *string
	Description     *string
	ChannelNameHint *string
	ChannelID       *string
	ViewCount       *int64
	LikeCount       *int64
	UploadDate      *time.Time
	Tags            []string
	CategoryID      *string
	ThumbnailURL    *string

	SnapshotTimestamp string
}

// HasData reports whether any metadata field was recovered. The absence of
// every optional field is itself the failure signal.
func (d *RecoveredVideoData) HasData() bool {
	if d == nil {
		return false
	}
	return d.Title != nil ||
		d.Description != nil ||
		d.ChannelNameHint != nil ||
		d.ChannelID != nil ||
		d.ViewCount != nil ||
		d.LikeCount != nil ||
		d.UploadDate != nil ||
		len(d.Tags) > 0 ||
		d.CategoryID != nil ||
		d.ThumbnailURL != nil
}

// RecoveredChannelData is a sparse record of channel metadata recovered from
// a single snapshot.
type RecoveredChannelData struct {
	Title           *string
	Description     *string
	SubscriberCount *int64
	VideoCount      *int64
	ThumbnailURL    *string
	// Country is a 2-letter uppercase ISO code when set.
	Country         *string
	DefaultLanguage *string

	SnapshotTimestamp string
}

// HasData reports whether any metadata field was recovered.
func (d *RecoveredChannelData) HasData() bool {
	if d == nil {
		return false
	}
	return d.Title != nil ||
		d.Description != nil ||
		d.SubscriberCount != nil ||
		d.VideoCount != nil ||
		d.ThumbnailURL != nil ||
		d.Country != nil ||
		d.DefaultLanguage != nil
}
