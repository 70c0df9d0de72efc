package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"yoplan/internal/models/db_models"
	"yoplan/internal/diagnosis"
	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type stubAccounts struct {
	login    *response_models.LoginResponse
	loginErr error
	register error
	profile  *response_models.UserResponse
	deleted  []uuid.UUID
}

func (s *stubAccounts) Login(context.Context, request_models.LoginRequest) (*response_models.LoginResponse, error) {
	return s.login, s.loginErr
}

func (s *stubAccounts) Register(_ context.Context, req request_models.RegisterRequest) (*response_models.UserResponse, error) {
	if s.register != nil {
		return nil, s.register
	}
	return &response_models.UserResponse{Nickname: req.Nickname, Email: req.Email}, nil
}

func (s *stubAccounts) Profile(context.Context, uuid.UUID) (*response_models.UserResponse, error) {
	return s.profile, nil
}

func (s *stubAccounts) DeleteAccount(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAccounts) UserAge(context.Context, uuid.UUID) (*int, error) { return nil, nil }

func (s *stubAccounts) IssueToken(*db_models.User) (*response_models.LoginResponse, error) {
	return s.login, nil
}

type stubKakao struct {
	login *response_models.LoginResponse
	err   error
	codes []string
}

func (s *stubKakao) AuthCodeURL(state string) string {
	return "https://kauth.kakao.com/oauth/authorize?state=" + state
}

func (s *stubKakao) Login(_ context.Context, code string) (*response_models.LoginResponse, error) {
	s.codes = append(s.codes, code)
	return s.login, s.err
}

type stubDiagnosis struct {
	err     error
	userIDs []*uuid.UUID
	history request_models.PageRequest
}

func (s *stubDiagnosis) ListQuestions(context.Context) ([]diagnosis.Question, error) {
	return []diagnosis.Question{{ID: "q1", Order: 1, Active: true}}, nil
}

func (s *stubDiagnosis) Submit(_ context.Context, req request_models.DiagnosisRequest, userID *uuid.UUID) (*response_models.DiagnosisResultResponse, error) {
	s.userIDs = append(s.userIDs, userID)
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.DiagnosisResultResponse{
		SessionID:        req.SessionID,
		RecommendedPlans: []diagnosis.ScoredPlan{},
		Message:          diagnosis.NoMatchMessage,
	}, nil
}

func (s *stubDiagnosis) GetResult(_ context.Context, sessionID string) (*response_models.DiagnosisResultResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &response_models.DiagnosisResultResponse{SessionID: sessionID}, nil
}

func (s *stubDiagnosis) History(_ context.Context, _ uuid.UUID, req request_models.PageRequest) (*response_models.DiagnosisHistoryResponse, error) {
	s.history = req
	return &response_models.DiagnosisHistoryResponse{}, nil
}

type stubChat struct {
	reply    *response_models.ChatReply
	replyErr error
	// stream drives the sink for StreamReply
	stream  func(sink services.StreamSink) error
	mu      sync.Mutex
	clients []services.ChatClientInfo
	deleted []string
}

func (s *stubChat) seen() []services.ChatClientInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]services.ChatClientInfo(nil), s.clients...)
}

func (s *stubChat) Reply(context.Context, string) (*response_models.ChatReply, error) {
	return s.reply, s.replyErr
}

func (s *stubChat) StreamReply(_ context.Context, client services.ChatClientInfo, _ string, sink services.StreamSink) error {
	s.mu.Lock()
	s.clients = append(s.clients, client)
	s.mu.Unlock()
	return s.stream(sink)
}

func (s *stubChat) GetConversation(_ context.Context, sessionID string) (*response_models.ConversationResponse, error) {
	return &response_models.ConversationResponse{SessionID: sessionID, Messages: []response_models.MessageResponse{}}, nil
}

func (s *stubChat) DeleteConversation(_ context.Context, sessionID string) error {
	s.deleted = append(s.deleted, sessionID)
	return nil
}
