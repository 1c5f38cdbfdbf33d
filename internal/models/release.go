package models

import "time"

// Release mirrors the releases table.
type Release struct {
	ReleaseID     string     `db:"release_id"`
	ArtistID      string     `db:"artist_id"`
	LabelID       *string    `db:"label_id"`
	Title         string     `db:"title"`
	Genre         string     `db:"genre"`
	ReleaseType   string     `db:"release_type"`
	ArtworkURL    string     `db:"artwork_url"`
	ReleaseDate   *time.Time `db:"release_date"`
	Status        string     `db:"status"`
	PriorStatus   *string    `db:"prior_status"`
	SplitConfigID *string    `db:"split_config_id"`
	Version       int64      `db:"version"`
	AuditFields
}

// ChangeRequest mirrors the change_requests table.
type ChangeRequest struct {
	RequestID      string     `db:"request_id"`
	ReleaseID      string     `db:"release_id"`
	Field          string     `db:"field"`
	CurrentValue   string     `db:"current_value"`
	RequestedValue string     `db:"requested_value"`
	Reason         string     `db:"reason"`
	Status         string     `db:"status"`
	ResolvedBy     *string    `db:"resolved_by"`
	ResolvedAt     *time.Time `db:"resolved_at"`
	AuditFields
}
