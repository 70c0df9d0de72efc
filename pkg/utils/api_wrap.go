package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, "success", message, data)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, "success", message, data)
}

func RespondError(c *gin.Context, code int, message string) {
	respond(c, code, "error", message, nil)
}

// RespondErrorWithData is used when the client needs structured detail, such
// as the offending question ids or the conflicting session id.
func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	respond(c, code, "error", message, data)
}

func respond(c *gin.Context, code int, status, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

var sentinelResponses = []struct {
	err     error
	code    int
	message string
}{
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidID, http.StatusBadRequest, "Invalid id"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "이메일 또는 비밀번호가 올바르지 않습니다."},
	{ErrUnauthorized, http.StatusUnauthorized, "로그인이 필요합니다."},
	{ErrForbidden, http.StatusForbidden, "권한이 없습니다."},
	{ErrUserNotFound, http.StatusNotFound, "사용자를 찾을 수 없습니다."},
	{ErrEmailTaken, http.StatusConflict, "이미 사용 중인 이메일입니다."},
	{ErrNicknameTaken, http.StatusConflict, "이미 사용 중인 닉네임입니다."},
	{ErrPlanNotFound, http.StatusNotFound, "요금제를 찾을 수 없습니다."},
	{ErrBookmarkNotFound, http.StatusNotFound, "북마크를 찾을 수 없습니다."},
	{ErrAlreadyBookmarked, http.StatusConflict, "이미 북마크한 요금제입니다."},
	{ErrResultNotFound, http.StatusNotFound, "진단 결과를 찾을 수 없습니다."},
	{ErrConversationNotFound, http.StatusNotFound, "대화 기록을 찾을 수 없습니다."},
	{ErrEmptyMessage, http.StatusBadRequest, "메시지를 입력해주세요."},
	{ErrKakaoAuthFailed, http.StatusUnauthorized, "카카오 로그인에 실패했습니다."},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, s := range sentinelResponses {
		if errors.Is(err, s.err) {
			RespondError(c, s.code, s.message)
			return
		}
	}

	zap.L().Error("unhandled service error",
		zap.String("trace_id", c.GetString("trace_id")),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
