// Package server exposes the portal's REST surface with gin: auth,
// timetable, results, attendance, notifications, the chat endpoint and
// the admin CRUD.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeswanthsaravanan/smartcampus/auth"
	"github.com/jeswanthsaravanan/smartcampus/chat"
	"github.com/jeswanthsaravanan/smartcampus/config"
	"github.com/jeswanthsaravanan/smartcampus/database"
	"github.com/jeswanthsaravanan/smartcampus/dates"
	"github.com/jeswanthsaravanan/smartcampus/logger"
	"github.com/jeswanthsaravanan/smartcampus/store"
)

// RecordSource yields a record view bound to one student.
type RecordSource interface {
	ForStudent(studentID string) chat.RecordStore
}

// SourceFunc adapts a function to RecordSource.
type SourceFunc func(studentID string) chat.RecordStore

func (f SourceFunc) ForStudent(studentID string) chat.RecordStore { return f(studentID) }

// StudentDirectory is the slice of the student repository the server
// needs for login and role lookups.
type StudentDirectory interface {
	GetByEmail(email string) (*database.Student, error)
	GetByID(studentID string) (*database.Student, error)
}

// AdminRepos bundles the repositories behind the admin CRUD. Any nil
// repo disables its routes.
type AdminRepos struct {
	Students   *database.StudentRepository
	Timetable  *database.TimetableRepository
	Results    *database.ResultRepository
	Attendance *database.AttendanceRepository
	Notes      *database.NotificationRepository
}

// Deps carries everything the server serves from.
type Deps struct {
	DB       *sqlx.DB
	Cache    *store.Cache
	Source   RecordSource
	Students StudentDirectory
	Notes    *database.NotificationRepository
	Admin    AdminRepos
	Clock    dates.Clock
}

type Server struct {
	cfg      *config.Config
	log      *logger.Logger
	deps     Deps
	resolver *dates.Resolver
	chatCfg  chat.Config
	sessions *sessionRegistry
	metrics  *metrics
	router   *gin.Engine
}

func New(cfg *config.Config, log *logger.Logger, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		deps:     deps,
		resolver: dates.NewResolver(deps.Clock),
		chatCfg:  chat.DefaultConfig(),
		sessions: newSessionRegistry(),
		metrics:  newMetrics(),
	}
	s.router = s.buildRouter()
	return s
}

// Router exposes the gin engine, mainly for httptest.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) buildRouter() *gin.Engine {
	if s.cfg.Env == "production" || s.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.handleHealthz)

	api := r.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", auth.Bearer(s.cfg.Auth.SigningKey, s.cfg.Auth.Issuer))
	authed.POST("/auth/logout", s.handleLogout)

	authed.GET("/timetable", s.handleTimetableWeek)
	authed.GET("/timetable/today", s.handleTimetableToday)
	authed.GET("/timetable/next", s.handleTimetableNext)
	authed.GET("/timetable/query", s.handleTimetableQuery)

	authed.GET("/results", s.handleResults)

	authed.GET("/attendance", s.handleAttendanceSummary)
	authed.GET("/attendance/daily", s.handleAttendanceDaily)
	authed.GET("/attendance/daily/:date", s.handleAttendanceDailyDate)

	authed.GET("/notifications", s.handleNotifications)
	authed.GET("/notifications/:id", s.handleNotification)

	authed.POST("/chat/:module", s.handleChat)
	authed.DELETE("/chat/:module", s.handleChatClose)

	admin := authed.Group("/admin", auth.AdminOnly())
	s.mountAdmin(admin)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	dbHealthy := s.deps.DB != nil && s.deps.DB.PingContext(c.Request.Context()) == nil
	redisHealthy := s.deps.Cache.Healthy(c.Request.Context())
	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}

// Run serves until ctx is cancelled, then drains for 10 seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.HTTP.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("http server listening on :%s", s.cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
