package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nyggen1981/arena-booking-sub002/internal/api"
	"github.com/Nyggen1981/arena-booking-sub002/internal/auth"
	"github.com/Nyggen1981/arena-booking-sub002/internal/booking"
	"github.com/Nyggen1981/arena-booking-sub002/internal/license"
	"github.com/Nyggen1981/arena-booking-sub002/internal/notify"
	"github.com/Nyggen1981/arena-booking-sub002/internal/part"
	"github.com/Nyggen1981/arena-booking-sub002/internal/photo"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/storage"
	"github.com/Nyggen1981/arena-booking-sub002/internal/resource"
	"github.com/Nyggen1981/arena-booking-sub002/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *slog.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	StoragePath      string
	ThumbnailQuality int

	LicenseBaseURL string
	LicenseAPIKey  string
	LicenseTimeout time.Duration

	SMTP        notify.SMTPConfig
	NotifyQueue int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Notifier   *notify.Worker
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Notifications: SMTP when configured, log-only otherwise.
	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = notify.NewMailer(cfg.SMTP)
	} else {
		sender = &notify.LogSender{Logger: cfg.Logger}
	}
	notifier := notify.NewWorker(sender, cfg.NotifyQueue, cfg.Logger)

	// License oracle: remote service when configured, allow-all otherwise.
	var oracle license.Oracle
	if cfg.LicenseBaseURL != "" {
		oracle = license.NewHTTPOracle(cfg.LicenseBaseURL, cfg.LicenseAPIKey, cfg.LicenseTimeout)
	} else {
		oracle = license.AllowAll{}
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Resource Module
	resRepo := resource.NewPgxRepository(cfg.DBPool)
	resService := resource.NewService(resRepo)

	// Part Module
	partRepo := part.NewPgxRepository(cfg.DBPool)
	partService := part.NewService(partRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, resService, partService, userService, oracle, notifier, cfg.Logger)

	// Photo Module
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		notifier.Close()
		return nil, fmt.Errorf("failed to init photo storage: %w", err)
	}
	imgProc := storage.NewImageProcessorWithQuality(cfg.ThumbnailQuality)
	photoRepo := photo.NewRepository(cfg.DBPool)
	photoService := photo.NewService(photoRepo, store, imgProc)

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		UserService:     userService,
		ResourceService: resService,
		PartService:     partService,
		BookingService:  bookingService,
		PhotoService:    photoService,
		JWTManager:      jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Notifier:   notifier,
	}, nil
}
