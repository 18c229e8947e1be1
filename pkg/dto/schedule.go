package dto

type SetSlotRequest struct {
	Mode string `json:"mode" validate:"required,oneof=unavailable owner_play guest_match"`
}

type CloneWeekRequest struct {
	TargetWeek string `json:"target_week" validate:"required,datetime=2006-01-02"`
}
