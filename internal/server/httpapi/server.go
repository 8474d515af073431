// Package httpapi exposes the file browser, session and messaging
// operations over HTTP using gin.
package httpapi

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/logging"
	"github.com/dmitrijs2005/streamdesk/internal/server/auth"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/dmitrijs2005/streamdesk/internal/server/sandbox"
	"github.com/dmitrijs2005/streamdesk/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Credentials registers and authenticates users.
type Credentials interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Verify(ctx context.Context, email, password string) (*models.User, error)
	ListRecipients(ctx context.Context) ([]models.Recipient, error)
}

// Tokens issues, verifies and revokes session tokens.
type Tokens interface {
	Issue(user *models.User) (string, error)
	Verify(ctx context.Context, token string) (*auth.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// Messenger sends mail and serves the mailbox views.
type Messenger interface {
	Send(ctx context.Context, from auth.Identity, to, subject, body string) (*models.SentMessage, error)
	Inbox(ctx context.Context, userID string) ([]models.InboxMessage, error)
	Sent(ctx context.Context, userID string) ([]models.SentMessage, error)
	MarkRead(ctx context.Context, userID, messageID string) error
	NotifyStreamStart(ctx context.Context, streamName string) (*services.DeliveryReport, error)
}

// Files lists directories and opens files inside the sandbox.
type Files interface {
	List(requested string) ([]sandbox.Entry, error)
	Open(requested string) (*sandbox.Download, error)
}

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Config      *config.Config
	Log         logging.Logger
	Credentials Credentials
	Tokens      Tokens
	Messages    Messenger
	Files       Files
}

type handler struct {
	Deps
	now func() time.Time
}

// Mode is the gin mode matching the deployment environment of c. Callers
// apply it with gin.SetMode once at startup.
func Mode(c *config.Config) string {
	if c.IsProduction() {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

// NewRouter builds the gin engine with middleware and every /api route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(d.Log))
	r.Use(securityHeaders())
	r.Use(cors.New(corsConfig(d.Config.CORSAllowOrigins)))
	if d.Config.RateLimitPerWindow > 0 {
		r.Use(newRateLimiter(d.Config.RateLimitPerWindow, d.Config.RateLimitWindow).middleware())
	}

	h := &handler{Deps: d, now: time.Now}
	api := r.Group("/api")

	api.GET("/health", h.health)
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	files := api.Group("/files")
	if d.Config.FilesRequireAuth {
		files.Use(requireAuth(d.Tokens))
	}
	files.GET("", h.files)
	files.GET("/*path", h.files)

	protected := api.Group("", requireAuth(d.Tokens))
	protected.POST("/logout", h.logout)
	protected.GET("/users", h.users)
	protected.GET("/emails/inbox", h.inbox)
	protected.GET("/emails/sent", h.sent)
	protected.POST("/emails/send", h.send)
	protected.PUT("/emails/:id/read", h.markRead)
	protected.POST("/notify/stream-start", h.notifyStreamStart)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	}
	return cfg
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": h.now().UTC().Format(time.RFC3339Nano)})
}
