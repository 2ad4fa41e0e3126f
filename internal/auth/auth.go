// Package auth wires the session layer: credential store, token codec,
// usecase, HTTP endpoints and the route guard.
package auth

import (
	"context"
	"fmt"

	authhttp "reuse-gateway/internal/auth/adapter/http"
	"reuse-gateway/internal/auth/adapter/persistence/memory"
	"reuse-gateway/internal/auth/adapter/persistence/mongodb"
	"reuse-gateway/internal/auth/adapter/security"
	"reuse-gateway/internal/auth/config"
	"reuse-gateway/internal/auth/domain/model"
	"reuse-gateway/internal/auth/domain/repository"
	"reuse-gateway/internal/auth/usecase"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.AuthRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	guard      *authhttp.RouteGuard
	config     *config.Config
	log        logger.Logger
}

// NewAuthModule creates a new authentication module. db may be nil, in
// which case credentials live in the in-memory store (local development).
// limiterStorage backs the login rate limiter and may be nil.
func NewAuthModule(
	db *mongo.Database,
	cfg *config.Config,
	log logger.Logger,
	m *metrics.Metrics,
	limiterStorage fiber.Storage,
) (*AuthModule, error) {
	var (
		authRepo repository.AuthRepository
		err      error
	)
	if db != nil {
		authRepo, err = mongodb.NewMongoAuthRepository(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create auth repository: %w", err)
		}
	} else {
		authRepo = memory.NewMemoryAuthRepository()
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(authRepo, tokenSvc, cfg)
	handler := authhttp.NewAuthHTTPHandler(authUsecase, cfg, log, m)
	middleware := authhttp.NewAuthMiddleware(authUsecase, cfg.CookieName, limiterStorage)
	guard := authhttp.NewRouteGuard(authUsecase, cfg.CookieName, log, m)

	return &AuthModule{
		repository: authRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    handler,
		middleware: middleware,
		guard:      guard,
		config:     cfg,
		log:        log.WithComponent("auth"),
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupRoutes(router, am.middleware)
}

// Guard returns the route guard middleware for page routes
func (am *AuthModule) Guard() fiber.Handler {
	return am.guard.Handler()
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// SeedDemoUser inserts the local development user if it does not exist yet
func (am *AuthModule) SeedDemoUser(ctx context.Context) error {
	const demoEmail = "teste@email.com"

	if _, err := am.repository.GetUserByEmail(ctx, demoEmail); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        demoEmail,
		Name:         "Usuário Teste",
		PasswordHash: string(hash),
	}
	if err := am.repository.CreateUser(ctx, user); err != nil {
		return err
	}

	am.log.Infof("seeded demo user %s", demoEmail)
	return nil
}
