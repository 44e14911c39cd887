package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nyggen1981/arena-booking-sub002/internal/auth"
	"github.com/Nyggen1981/arena-booking-sub002/internal/booking"
	bookingHttp "github.com/Nyggen1981/arena-booking-sub002/internal/booking/http"
	"github.com/Nyggen1981/arena-booking-sub002/internal/part"
	partHttp "github.com/Nyggen1981/arena-booking-sub002/internal/part/http"
	"github.com/Nyggen1981/arena-booking-sub002/internal/photo"
	photoHttp "github.com/Nyggen1981/arena-booking-sub002/internal/photo/http"
	"github.com/Nyggen1981/arena-booking-sub002/internal/resource"
	resourceHttp "github.com/Nyggen1981/arena-booking-sub002/internal/resource/http"
	"github.com/Nyggen1981/arena-booking-sub002/internal/user"
	userHttp "github.com/Nyggen1981/arena-booking-sub002/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService     user.Service
	ResourceService resource.Service
	PartService     part.Service
	BookingService  booking.Service
	PhotoService    photo.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	partHandler := partHttp.NewHandler(cfg.PartService, cfg.ResourceService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, sysAdminMiddleware)
		partHttp.RegisterRoutes(v1, partHandler, authMiddleware, sysAdminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, sysAdminMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware, sysAdminMiddleware)
	}

	return r
}
