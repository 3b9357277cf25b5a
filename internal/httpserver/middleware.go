package httpserver

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

const (
	ctxSessionKey = "storefront.session"
	ctxCartKey    = "storefront.cart"
	ctxTokenKey   = "storefront.token"
)

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// sessionMiddleware rejects requests without a live bearer token and puts
// the session and its cart on the context.
func sessionMiddleware(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}
		sess, store, err := svc.Lookup(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxTokenKey, token)
		c.Set(ctxSessionKey, sess)
		c.Set(ctxCartKey, store)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionFrom(c *gin.Context) domain.Session {
	return c.MustGet(ctxSessionKey).(domain.Session)
}

func cartFrom(c *gin.Context) *cart.Store {
	return c.MustGet(ctxCartKey).(*cart.Store)
}
