package request_models

import "yoplan/internal/diagnosis"

type DiagnosisRequest struct {
	Answers   []diagnosis.Answer `json:"answers" binding:"required,min=1"`
	SessionID string             `json:"sessionId,omitempty" binding:"omitempty,sessionid"`
}

type PageRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
