package middlewares

import (
	"net/http"

	"github.com/Kariqs/goneer-api/guard"
	"github.com/Kariqs/goneer-api/models"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for an authenticated session
// whose role is one of roles. With no roles any signed-in client passes.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess := CurrentSession(ctx)
		if sess == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session not found in context"})
			return
		}

		decision := guard.Decide(sess.State(), sess.Role(), roles, ctx.Request.URL.Path)
		switch decision.Kind {
		case guard.Loading:
			ctx.Header("Retry-After", "1")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Session is still loading, retry shortly"})
		case guard.Redirect:
			status, message := http.StatusForbidden, "Access denied for your role"
			if decision.To == guard.PathLogin {
				status, message = http.StatusUnauthorized, "Login required"
			}
			ctx.Header("Location", decision.To)
			ctx.AbortWithStatusJSON(status, gin.H{
				"message":  message,
				"redirect": decision.To,
				"from":     decision.From,
			})
		default:
			ctx.Next()
		}
	}
}

// RequireView guards a request with the roles of a named view.
func RequireView(name string) gin.HandlerFunc {
	view, ok := guard.Lookup(name)
	if !ok {
		panic("middlewares: unknown view " + name)
	}
	if !view.Guarded() {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return RequireRole(view.Roles...)
}

func RequireVendor() gin.HandlerFunc {
	return RequireView("vendor-dashboard")
}

func RequireAdmin() gin.HandlerFunc {
	return RequireView("admin-dashboard")
}
