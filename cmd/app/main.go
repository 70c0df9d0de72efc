package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"yoplan/cmd/fx/account_fx"
	"yoplan/cmd/fx/config_fx"
	"yoplan/cmd/fx/controllers_fx"
	"yoplan/cmd/fx/db_fx"
	"yoplan/cmd/fx/diagnosis_fx"
	"yoplan/cmd/fx/faq_fx"
	"yoplan/cmd/fx/memcache_fx"
	"yoplan/cmd/fx/plan_fx"
	"yoplan/cmd/fx/prompt_fx"
	"yoplan/internal/api/controllers"
	"yoplan/internal/infra"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		plan_fx.Module,
		diagnosis_fx.Module,
		faq_fx.Module,
		prompt_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *infra.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

// Controllers groups every handler the router mounts.
type Controllers struct {
	fx.In

	Account   *controllers.AccountController
	User      *controllers.UserController
	Plan      *controllers.PlanController
	Bookmark  *controllers.BookmarkController
	Diagnosis *controllers.DiagnosisController
	Faq       *controllers.FaqController
	Chat      *controllers.ChatController
	Health    *controllers.HealthController
}

func ProvideRouter(cfg *infra.Config, tokens *utils.JWTManager, log *zap.Logger, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	RegisterRoutes(r, tokens, limiter, ctrl)

	return r
}

func RegisterRoutes(r *gin.Engine, tokens *utils.JWTManager, limiter *middleware.RateLimiter, ctrl Controllers) {
	authRequired := middleware.AuthRequired(tokens)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/chat", ctrl.Chat.Stream)

	api := r.Group("/api", limiter.Middleware())
	api.GET("/health", ctrl.Health.Health)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", ctrl.Account.Login)
	authGroup.POST("/register", ctrl.Account.Register)
	authGroup.GET("/kakao", ctrl.Account.KakaoLogin)
	authGroup.GET("/kakao/callback", ctrl.Account.KakaoCallback)
	authGroup.GET("/profile", authRequired, ctrl.Account.Profile)
	authGroup.POST("/logout", authRequired, ctrl.Account.Logout)
	authGroup.DELETE("/delete-account", authRequired, ctrl.Account.DeleteAccount)

	usersGroup := api.Group("/users")
	usersGroup.PUT("/update", authRequired, ctrl.User.UpdateUser)
	usersGroup.GET("/:nickname", ctrl.User.GetUser)
	usersGroup.GET("/:nickname/bookmarks", authRequired, ctrl.User.GetUserBookmarks)

	plansGroup := api.Group("/plans")
	plansGroup.GET("", ctrl.Plan.ListPlans)
	plansGroup.GET("/:planId", ctrl.Plan.GetPlan)

	bookmarksGroup := api.Group("/bookmarks", authRequired)
	bookmarksGroup.GET("", ctrl.Bookmark.ListBookmarks)
	bookmarksGroup.POST("", ctrl.Bookmark.AddBookmark)
	bookmarksGroup.DELETE("/:planId", ctrl.Bookmark.RemoveBookmark)

	diagnosisGroup := api.Group("/diagnosis")
	diagnosisGroup.GET("/questions", ctrl.Diagnosis.ListQuestions)
	diagnosisGroup.POST("/result", middleware.OptionalAuth(tokens), ctrl.Diagnosis.SubmitDiagnosis)
	diagnosisGroup.GET("/result/:sessionId", ctrl.Diagnosis.GetResult)
	diagnosisGroup.GET("/history", authRequired, ctrl.Diagnosis.History)

	api.GET("/faq", ctrl.Faq.ListFaqs)

	api.POST("/chat", ctrl.Chat.Chat)
	api.GET("/conversations/:sessionId", ctrl.Chat.GetConversation)
	api.DELETE("/conversations/:sessionId", ctrl.Chat.DeleteConversation)
}
