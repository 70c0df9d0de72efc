package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yoplan/internal/models/request_models"
	"yoplan/internal/services"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

const kakaoStateCookie = "kakao_state"

// SessionCookieConfig controls how the session cookie is issued and where
// the Kakao flow sends the browser afterwards.
type SessionCookieConfig struct {
	Secure      bool
	TTL         time.Duration
	FrontendURL string
}

type AccountController struct {
	accountService services.AccountServiceInterface
	kakaoService   services.KakaoServiceInterface
	cookies        SessionCookieConfig
	log            *zap.Logger
}

func NewAccountController(
	accountService services.AccountServiceInterface,
	kakaoService services.KakaoServiceInterface,
	cookies SessionCookieConfig,
	log *zap.Logger,
) *AccountController {
	if cookies.TTL <= 0 {
		cookies.TTL = time.Hour
	}
	return &AccountController{
		accountService: accountService,
		kakaoService:   kakaoService,
		cookies:        cookies,
		log:            log,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, user, "회원가입이 완료되었습니다.")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user, set the session cookie and return the token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	login, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.setSessionCookie(c, login.Token)
	utils.RespondSuccess(c, login, "로그인되었습니다.")
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Success 200 {object} utils.APIResponse
// @Router /api/auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	a.clearSessionCookie(c)
	utils.RespondSuccess(c, nil, "로그아웃되었습니다.")
}

// Profile godoc
// @Summary Current user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/profile [get]
func (a *AccountController) Profile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	profile, err := a.accountService.Profile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "")
}

// DeleteAccount godoc
// @Summary Delete the current account and its bookmarks
// @Tags Auth
// @Success 200 {object} utils.APIResponse
// @Router /api/auth/delete-account [delete]
func (a *AccountController) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	if err := a.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	a.clearSessionCookie(c)
	utils.RespondSuccess(c, nil, "회원 탈퇴가 완료되었습니다.")
}

// KakaoLogin redirects the browser to Kakao's consent screen.
func (a *AccountController) KakaoLogin(c *gin.Context) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		a.log.Error("generate kakao state", zap.Error(err))
		c.Redirect(http.StatusFound, a.frontendPath("/login", url.Values{"error": {"kakao_auth_failed"}}))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(kakaoStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", a.cookies.Secure, true)
	c.Redirect(http.StatusFound, a.kakaoService.AuthCodeURL(state))
}

// KakaoCallback finishes the Kakao flow and always answers with a redirect
// to the frontend.
func (a *AccountController) KakaoCallback(c *gin.Context) {
	failed := a.frontendPath("/login", url.Values{"error": {"kakao_auth_failed"}})

	var req request_models.KakaoCallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Redirect(http.StatusFound, failed)
		return
	}

	if expected, err := c.Cookie(kakaoStateCookie); err == nil && expected != "" {
		if c.Query("state") != expected {
			a.log.Warn("kakao state mismatch", zap.String("trace_id", c.GetString("trace_id")))
			c.Redirect(http.StatusFound, failed)
			return
		}
	}
	c.SetCookie(kakaoStateCookie, "", -1, "/", "", a.cookies.Secure, true)

	login, err := a.kakaoService.Login(c.Request.Context(), req.Code)
	if err != nil {
		a.log.Warn("kakao login failed",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.Error(err))
		c.Redirect(http.StatusFound, failed)
		return
	}

	a.setSessionCookie(c, login.Token)
	c.Redirect(http.StatusFound, a.frontendPath("/dashboard", nil))
}

func (a *AccountController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookieName, token, int(a.cookies.TTL.Seconds()), "/", "", a.cookies.Secure, true)
}

func (a *AccountController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.TokenCookieName, "", -1, "/", "", a.cookies.Secure, true)
}

func (a *AccountController) frontendPath(path string, query url.Values) string {
	target := a.cookies.FrontendURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}
