package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"relaychat/api/internal/auth"
	"relaychat/api/internal/config"
	"relaychat/api/internal/entitlements"
	"relaychat/api/internal/quota"
	"relaychat/api/internal/repository"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	verifier *auth.Verifier
	guests   *auth.GuestIssuer
	sync     *auth.Synchronizer
	resolver *entitlements.Resolver
	daily    *quota.DailyCounter
	users    *repository.UserRepository
	chats    *repository.ChatRepository
	db       *pgxpool.Pool
	cache    *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	reconciler := auth.NewReconciler(userRepo, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		verifier: auth.NewVerifier(userRepo, log),
		guests:   auth.NewGuestIssuer(userRepo, log),
		sync:     auth.NewSynchronizer(userRepo, reconciler, cfg.Security.SessionTTL, log),
		resolver: entitlements.NewResolver(cfg.Entitlements, cfg.Models),
		daily:    quota.NewDailyCounter(cache, log),
		users:    userRepo,
		chats:    chatRepo,
		db:       db,
		cache:    cache,
	}
}

// Synchronizer exposes the session pipeline for the admission gate.
func (h HandlerSet) Synchronizer() *auth.Synchronizer { return h.sync }

// Resolver exposes the entitlement lookup for the admission gate.
func (h HandlerSet) Resolver() *entitlements.Resolver { return h.resolver }

// DailyCounter exposes the authenticated send counter for the admission gate.
func (h HandlerSet) DailyCounter() *quota.DailyCounter { return h.daily }

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", h.RegisterUser)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/guest", h.GuestLogin)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/google", h.GoogleLogin)
	authGroup.GET("/google/callback", h.GoogleCallback)

	router.GET("/models", h.ListModels)

	account := router.Group("/account")
	account.GET("", h.GetAccount)
	account.PUT("/name", h.UpdateName)
	account.POST("/image", h.UpdateImage)
	account.PATCH("/password", h.UpdatePassword)

	chat := router.Group("/chat")
	chat.POST("", h.SendMessage)
	chat.GET("", h.ListChats)
	chat.PATCH("/:id", h.RenameChat)
	chat.DELETE("/:id", h.DeleteChat)
	chat.PATCH("/:id/visibility", h.UpdateChatVisibility)
}
