package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/marvelcat/charstore/internal/auth"
)

// NewRouter wires the full HTTP surface. Listing is open; every
// mutating catalog operation sits behind the bearer-token gate.
func NewRouter(h *Handler, issuer *auth.TokenIssuer, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	r.POST("/signup", h.SignUp)
	r.GET("/login", h.LogIn)
	r.GET("/characters", h.ListCharacters)

	protected := r.Group("/", auth.RequireToken(issuer))
	protected.POST("/characters", h.CreateCharacter)
	protected.DELETE("/characters", h.DeleteCharacters)
	protected.PUT("/characters", h.ConvertCharacterPrice)

	return r
}

// RequestLogger logs one line per request with method, path, status, and
// latency.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
