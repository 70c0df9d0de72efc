package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrInvalidID       = errors.New("invalid id")
	ErrDatabaseError   = errors.New("database error")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNicknameTaken      = errors.New("nickname already taken")
	ErrKakaoAuthFailed    = errors.New("kakao authentication failed")

	ErrPlanNotFound      = errors.New("plan not found")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrAlreadyBookmarked = errors.New("plan already bookmarked")

	ErrResultNotFound       = errors.New("diagnosis result not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("empty chat message")
	ErrLLMUnavailable       = errors.New("llm provider unavailable")
)
