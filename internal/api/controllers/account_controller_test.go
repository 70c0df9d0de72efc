package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yoplan/internal/models/response_models"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

const testFrontend = "http://front.test"

func accountRouter(accounts *stubAccounts, kakao *stubKakao, tokens *utils.JWTManager) *gin.Engine {
	ctrl := NewAccountController(accounts, kakao, SessionCookieConfig{FrontendURL: testFrontend}, zap.NewNop())
	r := gin.New()
	g := r.Group("/api/auth")
	g.POST("/login", ctrl.Login)
	g.POST("/register", ctrl.Register)
	g.GET("/kakao", ctrl.KakaoLogin)
	g.GET("/kakao/callback", ctrl.KakaoCallback)
	g.GET("/profile", middleware.AuthRequired(tokens), ctrl.Profile)
	g.POST("/logout", middleware.AuthRequired(tokens), ctrl.Logout)
	g.DELETE("/delete-account", middleware.AuthRequired(tokens), ctrl.DeleteAccount)
	return r
}

func TestAccountController_LoginSetsCookie(t *testing.T) {
	accounts := &stubAccounts{login: &response_models.LoginResponse{Nickname: "민지", Email: "a@b.com", Token: "jwt-token"}}
	r := accountRouter(accounts, &stubKakao{}, utils.NewJWTManager("secret", time.Hour))

	w, env := perform(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "jwt-token")

	cookie := cookieNamed(w, utils.TokenCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "jwt-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestAccountController_LoginErrors(t *testing.T) {
	accounts := &stubAccounts{loginErr: utils.ErrInvalidCredentials}
	r := accountRouter(accounts, &stubKakao{}, utils.NewJWTManager("secret", time.Hour))

	w, _ := perform(t, r, http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, cookieNamed(w, utils.TokenCookieName))
}

func TestAccountController_Register(t *testing.T) {
	accounts := &stubAccounts{}
	r := accountRouter(accounts, &stubKakao{}, utils.NewJWTManager("secret", time.Hour))
	body := map[string]interface{}{"nickname": "민지", "email": "a@b.com", "password": "long-enough-pw"}

	w, _ := perform(t, r, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	accounts.register = utils.ErrEmailTaken
	w, _ = perform(t, r, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/api/auth/register",
		map[string]interface{}{"nickname": "민지", "email": "a@b.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountController_ProfileRequiresToken(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	userID := uuid.New()
	accounts := &stubAccounts{profile: &response_models.UserResponse{ID: userID.String(), Nickname: "민지"}}
	r := accountRouter(accounts, &stubKakao{}, tokens)

	w, _ := perform(t, r, http.MethodGet, "/api/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.CreateToken(userID, "user")
	require.NoError(t, err)
	w, env := perform(t, r, http.MethodGet, "/api/auth/profile", nil,
		&http.Cookie{Name: utils.TokenCookieName, Value: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), userID.String())
}

func TestAccountController_LogoutAndDelete(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	userID := uuid.New()
	accounts := &stubAccounts{}
	r := accountRouter(accounts, &stubKakao{}, tokens)
	token, err := tokens.CreateToken(userID, "user")
	require.NoError(t, err)
	session := &http.Cookie{Name: utils.TokenCookieName, Value: token}

	w, _ := perform(t, r, http.MethodPost, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieNamed(w, utils.TokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	w, _ = perform(t, r, http.MethodDelete, "/api/auth/delete-account", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{userID}, accounts.deleted)
}

func TestAccountController_KakaoRedirect(t *testing.T) {
	r := accountRouter(&stubAccounts{}, &stubKakao{}, utils.NewJWTManager("secret", time.Hour))

	w, _ := perform(t, r, http.MethodGet, "/api/auth/kakao", nil)
	require.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, kakaoStateCookie)
	require.NotNil(t, state)
	assert.Len(t, state.Value, 32)
	assert.Equal(t, "https://kauth.kakao.com/oauth/authorize?state="+state.Value, w.Header().Get("Location"))
}

func TestAccountController_KakaoCallback(t *testing.T) {
	kakao := &stubKakao{login: &response_models.LoginResponse{Nickname: "kakao_1", Token: "kakao-jwt"}}
	r := accountRouter(&stubAccounts{}, kakao, utils.NewJWTManager("secret", time.Hour))
	state := &http.Cookie{Name: kakaoStateCookie, Value: "abc"}

	w, _ := perform(t, r, http.MethodGet, "/api/auth/kakao/callback?code=xyz&state=abc", nil, state)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testFrontend+"/dashboard", w.Header().Get("Location"))
	session := cookieNamed(w, utils.TokenCookieName)
	require.NotNil(t, session)
	assert.Equal(t, "kakao-jwt", session.Value)
	assert.Equal(t, []string{"xyz"}, kakao.codes)
}

func TestAccountController_KakaoCallbackFailures(t *testing.T) {
	failed := testFrontend + "/login?error=kakao_auth_failed"
	kakao := &stubKakao{err: utils.ErrKakaoAuthFailed}
	r := accountRouter(&stubAccounts{}, kakao, utils.NewJWTManager("secret", time.Hour))

	w, _ := perform(t, r, http.MethodGet, "/api/auth/kakao/callback", nil)
	assert.Equal(t, failed, w.Header().Get("Location"), "missing code")

	w, _ = perform(t, r, http.MethodGet, "/api/auth/kakao/callback?code=xyz&state=evil", nil,
		&http.Cookie{Name: kakaoStateCookie, Value: "abc"})
	assert.Equal(t, failed, w.Header().Get("Location"), "state mismatch")
	assert.Empty(t, kakao.codes)

	w, _ = perform(t, r, http.MethodGet, "/api/auth/kakao/callback?code=xyz", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, failed, w.Header().Get("Location"), "exchange failure")
	assert.Nil(t, cookieNamed(w, utils.TokenCookieName))
}
