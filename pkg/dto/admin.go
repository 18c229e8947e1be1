package dto

import "github.com/google/uuid"

type RolloverReportResponse struct {
	SourceWeek string            `json:"source_week"`
	TargetWeek string            `json:"target_week"`
	Cloned     int               `json:"cloned"`
	Skipped    int               `json:"skipped"`
	Failures   []RolloverFailure `json:"failures"`
}

type RolloverFailure struct {
	GroundID uuid.UUID `json:"ground_id"`
	Name     string    `json:"name"`
	Error    string    `json:"error"`
}
