package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/goneer-api/guard"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/session"
	"github.com/gin-gonic/gin"
)

const (
	msgLoginSuccess = "Login successful"
	msgUserCreated  = "Account created successfully"
	msgSignedOut    = "Signed out successfully"
)

// landingAfterLogin sends the user back to where the guard stopped them, or
// to the landing view of their role.
func landingAfterLogin(from string, role models.Role) string {
	if strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") && from != guard.PathLogin && from != guard.PathSignup {
		return from
	}
	return guard.LandingFor(role)
}

func authPayload(sess *session.Session, message, redirect string) gin.H {
	snap := sess.Snapshot()
	return gin.H{
		"message":  message,
		"user":     snap.User,
		"profile":  snap.Profile,
		"redirect": redirect,
	}
}

func (c *Controller) Login(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	user, err := sess.Login(ctx.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, authPayload(sess, msgLoginSuccess, landingAfterLogin(loginData.From, user.Role)))
}

func (c *Controller) Signup(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}

	var signupData models.SignupData
	if err := ctx.ShouldBindJSON(&signupData); err != nil {
		respondWithBindingError(ctx, err)
		return
	}

	user, err := sess.Signup(ctx.Request.Context(), session.SignupInput{
		Email:           signupData.Email,
		Password:        signupData.Password,
		ConfirmPassword: signupData.ConfirmPassword,
		FullName:        signupData.FullName,
		Phone:           signupData.Phone,
		Role:            signupData.Role,
		PostalCode:      signupData.PostalCode,
		City:            signupData.City,
	})
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, authPayload(sess, msgUserCreated, guard.LandingFor(user.Role)))
}

func (c *Controller) Logout(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	if err := sess.SignOut(ctx.Request.Context()); err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgSignedOut, "redirect": guard.PathHome})
}

// Me reports the session state, identity and profile.
func (c *Controller) Me(ctx *gin.Context) {
	sess, ok := currentSession(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, sess.Snapshot())
}
