package http

import "github.com/reqboard/reqboard-backend/internal/projects/domain"

// linkReq carries a user↔project pair. UserID is a pointer so a missing
// field is distinguishable from user id 0.
type linkReq struct {
	UserID    *int   `json:"userId"`
	ProjectID string `json:"projectId"`
}

type requirementsReq struct {
	Requirements []domain.RequirementUpdate `json:"requirements"`
}

type ratingsReq struct {
	Ratings any `json:"ratings"`
}

type tasksReq struct {
	RequirementType string `json:"requirementType"`
	ElementID       any    `json:"elementId"`
	Tasks           []any  `json:"tasks"`
}
