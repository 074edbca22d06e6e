package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/contacthub/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server owns the router and the listener lifecycle.
type Server struct {
	addr   string
	router *gin.Engine
	logger logging.Logger
}

// NewServer wires all routes and middleware and returns a server ready to
// run.
func NewServer(addr string, users UserAPI, contactsAPI ContactAPI, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	registerRoutes(router, users, contactsAPI)

	return &Server{addr: addr, router: router, logger: logger}
}

func registerRoutes(router *gin.Engine, users UserAPI, contactsAPI ContactAPI) {
	ah := NewAuthHandler(users)
	uh := NewUserHandler(users)
	ch := NewContactHandler(contactsAPI)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ah.Register)
		authGroup.POST("/login", ah.Login)
		authGroup.POST("/refresh-token", ah.Refresh)
		authGroup.POST("/logout", BearerAuth(users), ah.Logout)
		authGroup.GET("/confirmed_email/:token", ah.ConfirmEmail)
		authGroup.POST("/request_email", ah.RequestEmail)
		authGroup.POST("/reset_password", ah.ResetPassword)
		authGroup.GET("/confirm_reset_password/:token", ah.ConfirmResetPassword)
	}

	userGroup := api.Group("/users")
	userGroup.Use(BearerAuth(users))
	{
		userGroup.GET("/me", uh.Me)
		userGroup.GET("/moderator", RequireRole(users.RequireModerator), uh.ModeratorGreeting)
		userGroup.GET("/admin", RequireRole(users.RequireAdmin), uh.AdminGreeting)
		userGroup.PATCH("/avatar", RequireRole(users.RequireAdmin), uh.UpdateAvatar)
	}

	contactGroup := api.Group("/contacts")
	contactGroup.Use(BearerAuth(users))
	{
		contactGroup.GET("", ch.List)
		contactGroup.POST("", ch.Create)
		contactGroup.GET("/birthdays", ch.UpcomingBirthdays)
		contactGroup.GET("/:id", ch.Get)
		contactGroup.PUT("/:id", ch.Update)
		contactGroup.DELETE("/:id", ch.Delete)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server started", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info(context.Background(), "http server stopped")
	return nil
}
