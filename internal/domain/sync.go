package domain

import "time"

// SyncStats holds statistics about a sync run.
type SyncStats struct {
	SourceID  string        `json:"source_id"`
	Fetched   int           `json:"fetched"`
	Inserted  int           `json:"inserted"`
	Updated   int           `json:"updated"`
	Published int           `json:"published"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// UpsertResult reports, per video id, whether the batched catalog write
// inserted a new row or updated an existing one.
type UpsertResult struct {
	VideoID  string `db:"video_id"`
	Inserted bool   `db:"inserted"`
}

type SyncState struct {
	ID           int64     `db:"id"`
	SourceID     string    `db:"source_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	LastVideoID  string    `db:"last_video_id"`
	TotalSynced  int64     `db:"total_synced"`
}
