package di

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"myshop_backend/internal/app/router"
	authadapters "myshop_backend/internal/feature/auth/adapters"
	authentity "myshop_backend/internal/feature/auth/domain/entity"
	authhandler "myshop_backend/internal/feature/auth/transport/handler"
	authusecase "myshop_backend/internal/feature/auth/usecase"
	shopadapters "myshop_backend/internal/feature/shop/adapters"
	shopentity "myshop_backend/internal/feature/shop/domain/entity"
	shophandler "myshop_backend/internal/feature/shop/transport/handler"
	shopusecase "myshop_backend/internal/feature/shop/usecase"
	"myshop_backend/internal/platform/config"
	"myshop_backend/internal/platform/credential"
	"myshop_backend/internal/platform/http/handler"
	jwtmw "myshop_backend/internal/platform/jwt"
	"myshop_backend/internal/platform/metrics"
	"myshop_backend/internal/shared/ratelimiter"
)

// Models returns every entity migrated at startup.
func Models() []any {
	return []any{&authentity.User{}, &shopentity.Shop{}}
}

// NewAuthUsecase wires the auth usecase on db. The CLI commands use it
// directly; the server gets it through NewServer.
func NewAuthUsecase(cfg config.Config, db *gorm.DB) AuthService {
	return authusecase.NewAuthUsecase(
		authadapters.NewUserGorm(db),
		credential.NewHasher(),
		jwtmw.NewCodec(cfg.JWTSecret),
		cfg.SeedSecret,
	)
}

// AuthService is the auth usecase as seen by the server and the CLI.
type AuthService interface {
	authhandler.AuthUsecase
	SeedAdmin(ctx context.Context, email, password any) (*authusecase.SeedResult, error)
	ResetPassword(ctx context.Context, email, password string) (bool, error)
}

// NewServer wires repositories, usecases and handlers into the Gin engine.
// rdb may be nil.
func NewServer(cfg config.Config, logger *slog.Logger, db *gorm.DB, rdb *goredis.Client) *gin.Engine {
	codec := jwtmw.NewCodec(cfg.JWTSecret)
	m := metrics.New()

	// Usecase
	authUC := NewAuthUsecase(cfg, db)
	shopUC := shopusecase.NewShopUsecase(
		shopadapters.NewShopGorm(db),
		NewImageUploader(cfg.Images),
		cfg.Images.Delivery(),
	)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, ratelimiter.NewLoginLimiter(NewCounterStore(rdb)), m)
	shopH := shophandler.NewShopHandler(shopUC)

	return router.NewRouter(router.Deps{
		Logger:         logger,
		Auth:           authH,
		Shops:          shopH,
		Codec:          codec,
		Metrics:        m,
		Health:         healthChecks(db, rdb),
		AllowedOrigins: cfg.AllowedOrigins,
		PublicRPS:      cfg.PublicRateLimit,
	})
}

func healthChecks(db *gorm.DB, rdb *goredis.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
