package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"yoplan/internal/models/db_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/utils"
)

const (
	kakaoAuthURL    = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL   = "https://kauth.kakao.com/oauth/token"
	kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"

	maxNicknameRunes = 20
)

type KakaoServiceInterface interface {
	AuthCodeURL(state string) string
	// Login exchanges an authorization code, then finds, links or creates the
	// matching user and signs a session token.
	Login(ctx context.Context, code string) (*response_models.LoginResponse, error)
}

type KakaoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and ProfileURL default to Kakao's production hosts.
	Endpoint   *oauth2.Endpoint
	ProfileURL string
}

type kakaoProfile struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

type KakaoService struct {
	oauth      *oauth2.Config
	profileURL string
	userRepo   repositories.UserRepository
	accounts   AccountServiceInterface
	log        *zap.Logger
}

func NewKakaoService(cfg KakaoConfig, userRepo repositories.UserRepository, accounts AccountServiceInterface, log *zap.Logger) KakaoServiceInterface {
	endpoint := oauth2.Endpoint{
		AuthURL:   kakaoAuthURL,
		TokenURL:  kakaoTokenURL,
		AuthStyle: oauth2.AuthStyleInParams,
	}
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = kakaoProfileURL
	}
	return &KakaoService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		profileURL: profileURL,
		userRepo:   userRepo,
		accounts:   accounts,
		log:        log,
	}
}

func (k *KakaoService) AuthCodeURL(state string) string {
	return k.oauth.AuthCodeURL(state)
}

func (k *KakaoService) Login(ctx context.Context, code string) (*response_models.LoginResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, utils.ErrKakaoAuthFailed
	}
	token, err := k.oauth.Exchange(ctx, code)
	if err != nil {
		k.log.Warn("kakao code exchange failed", zap.Error(err))
		return nil, utils.ErrKakaoAuthFailed
	}

	profile, err := k.fetchProfile(ctx, token)
	if err != nil {
		k.log.Warn("kakao profile fetch failed", zap.Error(err))
		return nil, utils.ErrKakaoAuthFailed
	}

	user, err := k.findOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}
	return k.accounts.IssueToken(user)
}

func (k *KakaoService) fetchProfile(ctx context.Context, token *oauth2.Token) (*kakaoProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.profileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := k.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao profile: status %d", resp.StatusCode)
	}

	var profile kakaoProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("kakao profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, errors.New("kakao profile: missing id")
	}
	return &profile, nil
}

// findOrCreate links by kakao id first, then by email, and otherwise creates
// a password-less account.
func (k *KakaoService) findOrCreate(ctx context.Context, profile *kakaoProfile) (*db_models.User, error) {
	kakaoID := strconv.FormatInt(profile.ID, 10)

	user, err := k.userRepo.FindByKakaoID(ctx, kakaoID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user != nil {
		return user, nil
	}

	email := normalizeEmail(profile.KakaoAccount.Email)
	if email != "" {
		user, err = k.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if user != nil {
			user.KakaoID = &kakaoID
			if err := k.userRepo.Update(ctx, user); err != nil {
				return nil, utils.ErrDatabaseError
			}
			k.log.Info("kakao account linked", zap.String("user_id", user.ID.String()))
			return user, nil
		}
	} else {
		email = "kakao_" + kakaoID + "@kakao.local"
	}

	nickname, err := k.availableNickname(ctx, profile.KakaoAccount.Profile.Nickname, kakaoID)
	if err != nil {
		return nil, err
	}
	user = &db_models.User{
		Nickname: nickname,
		Email:    email,
		KakaoID:  &kakaoID,
		Role:     db_models.RoleUser,
	}
	if err := k.userRepo.Create(ctx, user); err != nil {
		k.log.Error("create kakao user", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	k.log.Info("kakao user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (k *KakaoService) availableNickname(ctx context.Context, preferred, kakaoID string) (string, error) {
	fallback := truncateRunes("kakao_"+kakaoID, maxNicknameRunes)
	preferred = truncateRunes(strings.TrimSpace(preferred), maxNicknameRunes)
	if len([]rune(preferred)) < 2 {
		return fallback, nil
	}
	taken, err := k.userRepo.FindByNickname(ctx, preferred)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if taken != nil {
		return fallback, nil
	}
	return preferred, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
