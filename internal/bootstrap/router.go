package bootstrap

import (
	"database/sql"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/reqboard/reqboard-backend/internal/api/http"
	"github.com/reqboard/reqboard-backend/internal/api/http/middleware"
	"github.com/reqboard/reqboard-backend/internal/auth"
	projectshttp "github.com/reqboard/reqboard-backend/internal/projects/http"
	"github.com/reqboard/reqboard-backend/internal/projects/repository"
	"github.com/reqboard/reqboard-backend/internal/projects/service"
	"github.com/reqboard/reqboard-backend/internal/storage/gcs"
	"github.com/reqboard/reqboard-backend/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *sql.DB
	Firestore      *firestore.Client
	Bucket         *storage.BucketHandle
	Redis          *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) == 1 && dep.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-Id", "X-Request-Id")
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(rate.Limit(50), 100))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	docRepo := repository.NewProjectDocRepository(dep.Firestore)
	linkRepo := repository.NewLinkRepository(dep.DB)
	userRepo := users.NewRepo(dep.DB)

	var blobs service.BlobStore
	if dep.Bucket != nil {
		blobs = gcs.NewImageStore(dep.Bucket)
	}
	var cache service.Cache
	if dep.Redis != nil {
		cache = repository.NewProjectCache(dep.Redis)
	}

	svc := service.NewProjectService(docRepo, linkRepo, userRepo, blobs, cache)

	api := r.Group("/api/v1")
	api.Use(auth.WithUser())
	projectshttp.Register(api.Group("/projects"), svc)

	return r
}
