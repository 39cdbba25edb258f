package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"muuapp-api/internal/domain"
	"muuapp-api/internal/service"
)

// contextUserID is the gin context key holding the verified token subject.
const contextUserID = "userID"

const msgBadRequest = "Solicitud inválida"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	users  service.UserService
	tokens TokenVerifier
	log    *logrus.Logger
}

func NewHandler(auth service.AuthService, users service.UserService, tokens TokenVerifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		auth:   auth,
		users:  users,
		tokens: tokens,
		log:    logger,
	}
}

// route is one entry of the dispatch table.
type route struct {
	method        string
	path          string
	handler       gin.HandlerFunc
	requiresToken bool
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodPost, "/auth", h.login, false},
		{http.MethodPost, "/auth/send-email", h.sendResetEmail, false},
		{http.MethodGet, "/users", h.listUsers, true},
		{http.MethodGet, "/users/:id", h.getUser, true},
		{http.MethodPost, "/users", h.createUser, false},
		{http.MethodPost, "/users/new-password", h.newPassword, false},
		{http.MethodDelete, "/users/:id", h.deleteUser, true},
		{http.MethodGet, "/health", h.health, false},
	}
}

// RegisterRoutes mounts the route table under basePath ("" for the root).
func (h *Handler) RegisterRoutes(router *gin.Engine, basePath string) {
	router.Use(requestLogger(h.log))

	api := router.Group("/" + strings.Trim(basePath, "/"))
	for _, r := range h.routes() {
		chain := []gin.HandlerFunc{r.handler}
		if r.requiresToken {
			chain = []gin.HandlerFunc{h.requireToken, r.handler}
		}
		api.Handle(r.method, r.path, chain...)
	}
}

// requireToken verifies the bearer token before the route handler runs.
func (h *Handler) requireToken(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": domain.MsgNoToken})
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": domain.MsgInvalidToken})
		return
	}

	c.Set(contextUserID, userID)
	c.Next()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if userID, ok := c.Get(contextUserID); ok {
			entry = entry.WithField("user_id", userID)
		}
		entry.Info("request")
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

// writeError maps the domain error kind to a status code. Internal causes are
// logged and never written to the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	if kind == domain.KindInternal {
		h.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
	}
	c.JSON(status, gin.H{"msg": domain.MessageOf(err)})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
