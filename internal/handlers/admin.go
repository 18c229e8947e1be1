package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AdminHandler struct {
	rollover RolloverRunner
	now      func() time.Time
}

func NewAdminHandler(rollover RolloverRunner) *AdminHandler {
	return &AdminHandler{rollover: rollover, now: time.Now}
}

// RunRollover clones every ground's current week into the next one now,
// outside the weekly timer.
func (h *AdminHandler) RunRollover(c *drift.Context) {
	report, err := h.rollover.RunOnce(context.Background(), h.now())
	if err != nil {
		respondError(c, err, "failed to run rollover")
		return
	}

	resp := dto.RolloverReportResponse{
		SourceWeek: report.SourceWeek.Format(time.DateOnly),
		TargetWeek: report.TargetWeek.Format(time.DateOnly),
		Cloned:     report.Cloned,
		Skipped:    report.Skipped,
		Failures:   []dto.RolloverFailure{},
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, dto.RolloverFailure{GroundID: f.GroundID, Name: f.Name, Error: f.Err.Error()})
	}

	_ = c.JSON(200, resp)
}
