package middlewares

import (
	"net/http"

	"github.com/Kariqs/goneer-api/logger"
	"github.com/Kariqs/goneer-api/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionCookie = "sid"
	SessionHeader = "X-Session-Token"

	sessionKey       = "session"
	sessionCookieAge = 365 * 24 * 60 * 60
)

// Session attaches the client's session to the request. A client without a
// valid token gets a new client id, returned both as a cookie and a header;
// that session is only kept when the request left state in it.
func Session(store *session.Store, tokens *session.Tokens, secureCookie bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log := logger.FromContext(ctx)

		clientID := clientIDFrom(ctx, tokens)
		minted := clientID == ""
		if minted {
			clientID = session.NewClientID()
			token, err := tokens.Issue(clientID)
			if err != nil {
				log.Error("failed to issue session token", zap.Error(err))
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(SessionCookie, token, sessionCookieAge, "/", "", secureCookie, true)
			ctx.Header(SessionHeader, token)
		}

		sess := store.Get(clientID)
		if sess.State() == session.StateResolving {
			if err := sess.Resolve(ctx.Request.Context()); err != nil {
				log.Warn("session still resolving", zap.String("session", clientID), zap.Error(err))
			}
		}

		ctx.Set(sessionKey, sess)
		ctx.Next()

		// nobody else knows a freshly minted id yet
		if minted {
			store.Discard(clientID)
		}
	}
}

func clientIDFrom(ctx *gin.Context, tokens *session.Tokens) string {
	token := ctx.GetHeader(SessionHeader)
	if token == "" {
		token, _ = ctx.Cookie(SessionCookie)
	}
	if token == "" {
		return ""
	}
	clientID, err := tokens.Parse(token)
	if err != nil {
		return ""
	}
	return clientID
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(ctx *gin.Context) *session.Session {
	if v, ok := ctx.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
