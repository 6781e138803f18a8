package httpserver

import (
	"time"

	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	customMiddleware "github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	AppName        string
	Version        string
	Environment    string
}

type ServerDeps struct {
	NewsService        ports.NewsService
	ItemService        ports.ItemService
	AdminTokens        ports.AdminTokenService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	newsService    ports.NewsService
	itemService    ports.ItemService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	if serverConfig == nil {
		serverConfig = &ServerConfig{}
	}
	if logger == nil {
		logger = logrus.New()
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		newsService:    deps.NewsService,
		itemService:    deps.ItemService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AdminTokens,
			deps.RateLimiterService,
			logger,
			requestsTotal,
			requestDuration,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
