package request_models

type ListPlansRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=5G LTE 기타"`
}

type BookmarkRequest struct {
	PlanID string `json:"planId" binding:"required,uuid"`
}
