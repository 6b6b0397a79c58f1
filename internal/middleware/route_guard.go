package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getmentor/mentor-match-client/internal/guard"
	"github.com/getmentor/mentor-match-client/internal/session"
)

// SnapshotSource exposes the current session state
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// RouteGuardMiddleware decides every screen request with the route guard:
// 503 while the session is still bootstrapping, 307 to the allowed screen,
// or the handler otherwise
func RouteGuardMiddleware(sessions SnapshotSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Evaluate(sessions.Snapshot(), c.Request.URL.Path)

		switch decision.Outcome {
		case guard.Loading:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		case guard.Redirect:
			c.Redirect(http.StatusTemporaryRedirect, decision.RedirectTo)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireSessionMiddleware rejects actions that need a logged-in user
func RequireSessionMiddleware(sessions SnapshotSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := sessions.Snapshot()
		if snap.Bootstrapping {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
			return
		}
		if !snap.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		c.Next()
	}
}
