package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// CreateReleaseRequest defines the data needed to create a new release.
type CreateReleaseRequest struct {
	Title       string     `json:"title" binding:"required"`
	Genre       string     `json:"genre"`
	ReleaseType string     `json:"releaseType" binding:"required,oneof=single ep album"`
	ArtworkURL  string     `json:"artworkURL"`
	ReleaseDate *time.Time `json:"releaseDate"`
	ArtistID    string     `json:"artistID"` // required when a label admin creates on behalf of an artist
	LabelID     *string    `json:"labelID"`
}

// UpdateReleaseRequest defines draft-stage metadata edits.
// Use pointers to distinguish zero-value updates from fields not provided.
type UpdateReleaseRequest struct {
	Title       *string    `json:"title"`
	Genre       *string    `json:"genre"`
	ArtworkURL  *string    `json:"artworkURL"`
	ReleaseDate *time.Time `json:"releaseDate"`
}

// TransitionRequest names the target lifecycle status.
type TransitionRequest struct {
	TargetStatus domain.ReleaseStatus `json:"targetStatus" binding:"required"`
}

// ReleaseResponse defines the data returned for a release.
type ReleaseResponse struct {
	ReleaseID     string                `json:"releaseID"`
	ArtistID      string                `json:"artistID"`
	LabelID       *string               `json:"labelID,omitempty"`
	Title         string                `json:"title"`
	Genre         string                `json:"genre"`
	ReleaseType   string                `json:"releaseType"`
	ArtworkURL    string                `json:"artworkURL"`
	ReleaseDate   *time.Time            `json:"releaseDate,omitempty"`
	Status        domain.ReleaseStatus  `json:"status"`
	SplitConfigID *string               `json:"splitConfigID,omitempty"`
	Version       int64                 `json:"version"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ListReleasesParams holds pagination parameters for listing releases.
type ListReleasesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListReleasesResponse is the paginated release listing.
type ListReleasesResponse struct {
	Releases  []ReleaseResponse `json:"releases"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToReleaseResponse converts a domain.Release to ReleaseResponse DTO.
func ToReleaseResponse(r *domain.Release) ReleaseResponse {
	return ReleaseResponse{
		ReleaseID:     r.ReleaseID,
		ArtistID:      r.ArtistID,
		LabelID:       r.LabelID,
		Title:         r.Title,
		Genre:         r.Genre,
		ReleaseType:   r.ReleaseType,
		ArtworkURL:    r.ArtworkURL,
		ReleaseDate:   r.ReleaseDate,
		Status:        r.Status,
		SplitConfigID: r.SplitConfigID,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

// ToReleaseResponses converts a slice of releases.
func ToReleaseResponses(releases []domain.Release) []ReleaseResponse {
	res := make([]ReleaseResponse, len(releases))
	for i := range releases {
		res[i] = ToReleaseResponse(&releases[i])
	}
	return res
}
