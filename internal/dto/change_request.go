package dto

import (
	"time"

	"github.com/mscandco/distribution_backend/internal/core/domain"
)

// ChangeRequestDecision is the resolver's verdict on a change request.
type ChangeRequestDecision string

const (
	DecisionApprove ChangeRequestDecision = "approve"
	DecisionReject  ChangeRequestDecision = "reject"
)

// CreateChangeRequestRequest proposes an edit to a locked release field.
type CreateChangeRequestRequest struct {
	Field          string `json:"field" binding:"required"`
	RequestedValue string `json:"requestedValue" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
}

// ResolveChangeRequestRequest carries the resolution decision.
type ResolveChangeRequestRequest struct {
	Decision ChangeRequestDecision `json:"decision" binding:"required,oneof=approve reject"`
}

// ChangeRequestResponse defines the data returned for a change request.
type ChangeRequestResponse struct {
	RequestID      string                     `json:"requestID"`
	ReleaseID      string                     `json:"releaseID"`
	Field          string                     `json:"field"`
	CurrentValue   string                     `json:"currentValue"`
	RequestedValue string                     `json:"requestedValue"`
	Reason         string                     `json:"reason"`
	Status         domain.ChangeRequestStatus `json:"status"`
	ResolvedBy     *string                    `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time                 `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time                  `json:"createdAt"`
	CreatedBy      string                     `json:"createdBy"`
}

// ToChangeRequestResponse converts a domain.ChangeRequest to its DTO.
func ToChangeRequestResponse(cr *domain.ChangeRequest) ChangeRequestResponse {
	return ChangeRequestResponse{
		RequestID:      cr.RequestID,
		ReleaseID:      cr.ReleaseID,
		Field:          cr.Field,
		CurrentValue:   cr.CurrentValue,
		RequestedValue: cr.RequestedValue,
		Reason:         cr.Reason,
		Status:         cr.Status,
		ResolvedBy:     cr.ResolvedBy,
		ResolvedAt:     cr.ResolvedAt,
		CreatedAt:      cr.CreatedAt,
		CreatedBy:      cr.CreatedBy,
	}
}

// ToChangeRequestResponses converts a slice of change requests.
func ToChangeRequestResponses(crs []domain.ChangeRequest) []ChangeRequestResponse {
	res := make([]ChangeRequestResponse, len(crs))
	for i := range crs {
		res[i] = ToChangeRequestResponse(&crs[i])
	}
	return res
}
