package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoplan/internal/diagnosis"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

func diagnosisRouter(svc *stubDiagnosis, tokens *utils.JWTManager) *gin.Engine {
	ctrl := NewDiagnosisController(svc)
	r := gin.New()
	g := r.Group("/api/diagnosis")
	g.GET("/questions", ctrl.ListQuestions)
	g.POST("/result", middleware.OptionalAuth(tokens), ctrl.SubmitDiagnosis)
	g.GET("/result/:sessionId", ctrl.GetResult)
	g.GET("/history", middleware.AuthRequired(tokens), ctrl.History)
	return r
}

func diagnosisBody(sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"sessionId": sessionID,
		"answers": []map[string]interface{}{
			{"questionId": "q1", "answer": "20GB - 50GB"},
			{"questionId": "q2", "answer": []string{"영상 시청"}},
		},
	}
}

func TestDiagnosisController_SubmitAnonymousAndAuthenticated(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	svc := &stubDiagnosis{}
	r := diagnosisRouter(svc, tokens)

	w, env := perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody("session-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "session-1")

	userID := uuid.New()
	token, err := tokens.CreateToken(userID, "user")
	require.NoError(t, err)
	w, _ = perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody("session-2"),
		&http.Cookie{Name: utils.TokenCookieName, Value: token})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody("session-3"),
		&http.Cookie{Name: utils.TokenCookieName, Value: "garbage"})
	require.Equal(t, http.StatusOK, w.Code, "a bad token degrades to anonymous")

	require.Len(t, svc.userIDs, 3)
	assert.Nil(t, svc.userIDs[0])
	require.NotNil(t, svc.userIDs[1])
	assert.Equal(t, userID, *svc.userIDs[1])
	assert.Nil(t, svc.userIDs[2])
}

func TestDiagnosisController_SubmitRejectsBadInput(t *testing.T) {
	svc := &stubDiagnosis{}
	r := diagnosisRouter(svc, utils.NewJWTManager("secret", time.Hour))

	w, _ := perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody("bad id!"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/api/diagnosis/result", map[string]interface{}{"answers": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/api/diagnosis/result",
		`{"answers":[{"questionId":"q1","answer":{"nested":true}}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, svc.userIDs)
}

func TestDiagnosisController_ServiceErrors(t *testing.T) {
	svc := &stubDiagnosis{err: &diagnosis.InvalidQuestionError{QuestionIDs: []string{"ghost"}}}
	r := diagnosisRouter(svc, utils.NewJWTManager("secret", time.Hour))

	w, env := perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody(""))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"invalidQuestionIds":["ghost"]}`, string(env.Data))

	svc.err = &diagnosis.ConflictError{SessionID: "dup"}
	w, env = perform(t, r, http.MethodPost, "/api/diagnosis/result", diagnosisBody("dup"))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"sessionId":"dup"}`, string(env.Data))

	svc.err = utils.ErrResultNotFound
	w, _ = perform(t, r, http.MethodGet, "/api/diagnosis/result/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiagnosisController_History(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	svc := &stubDiagnosis{}
	r := diagnosisRouter(svc, tokens)

	w, _ := perform(t, r, http.MethodGet, "/api/diagnosis/history", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.CreateToken(uuid.New(), "user")
	require.NoError(t, err)
	w, _ = perform(t, r, http.MethodGet, "/api/diagnosis/history?page=2&limit=5", nil,
		&http.Cookie{Name: utils.TokenCookieName, Value: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.history.Page)
	assert.Equal(t, 5, svc.history.Limit)

	w, _ = perform(t, r, http.MethodGet, "/api/diagnosis/questions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
