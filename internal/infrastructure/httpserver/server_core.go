package httpserver

import (
	"time"

	"github.com/archstack/fieldreport/internal/core/ports"
	customMiddleware "github.com/archstack/fieldreport/internal/infrastructure/httpserver/middleware"
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
	Environment    string
}

// CreditCosts fixes the per-operation price of the metered AI endpoints.
type CreditCosts struct {
	Transcription int
	Report        int
	Refine        int
	Template      int
}

type ServerDeps struct {
	UserService        ports.UserService
	AuthService        ports.AuthService
	ProjectService     ports.ProjectService
	CallService        ports.CallService
	TemplateService    ports.TemplateService
	CreditService      ports.CreditService
	ReportService      ports.ReportService
	RateLimiterService ports.RateLimiterService
	EmailService       ports.EmailService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	costs          CreditCosts
	logger         *logrus.Logger
	userService    ports.UserService
	authSvc        ports.AuthService
	projectSvc     ports.ProjectService
	callSvc        ports.CallService
	templateSvc    ports.TemplateService
	creditSvc      ports.CreditService
	reportSvc      ports.ReportService
	emailSvc       ports.EmailService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, costs CreditCosts, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		costs:          costs,
		logger:         logger,
		userService:    deps.UserService,
		authSvc:        deps.AuthService,
		projectSvc:     deps.ProjectService,
		callSvc:        deps.CallService,
		templateSvc:    deps.TemplateService,
		creditSvc:      deps.CreditService,
		reportSvc:      deps.ReportService,
		emailSvc:       deps.EmailService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			deps.CreditService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
			GetRateLimitedTotal(),
			GetCreditDebitsTotal(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
