package web

import (
	"Quizzy/core"
	"Quizzy/lib/sl"
	"context"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Limiter decides whether one more hit fits into the window for key
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.With(
					slog.String("path", c.Request.URL.Path),
					slog.String(requestIDKey, c.GetString(requestIDKey)),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				).Error("panic recovered")
				abortWithError(c, core.NewError(core.CodeInternal, "internal server error"))
			}
		}()
		c.Next()
	}
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		logger := log.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String(requestIDKey, c.GetString(requestIDKey)),
		)
		switch {
		case status >= 500:
			logger.Error("request")
		case status >= 400:
			logger.Warn("request")
		default:
			logger.Debug("request")
		}
	}
}

func metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func corsPolicy(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	conf.AllowAllOrigins = len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			conf.AllowAllOrigins = true
			break
		}
	}
	if !conf.AllowAllOrigins {
		conf.AllowOrigins = origins
	}
	return cors.New(conf)
}

// rateLimit lets the request through when the limiter itself fails
func rateLimit(limiter Limiter, limit int, window time.Duration, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "quizzy:ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.With(
				slog.String("key", key),
			).Warn("rate limiter unavailable", sl.Err(err))
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abortWithError(c, core.NewError(core.CodeRateLimited, "too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
