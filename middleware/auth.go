// auth.go - Access token and admin session middleware
//
// API clients authenticate with the access_token cookie set at login.
// The admin panel uses its own signed cookie session instead.

package middleware

import (
	"context"
	"log"
	"net/http"

	"hotel-bookings-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	// TokenCookie holds the JWT issued by /auth/login.
	TokenCookie = "access_token"

	// AdminSessionName is the cookie name of the admin panel session.
	AdminSessionName = "admin_session"

	userKey      = "user"
	adminUserKey = "admin_user"
)

// UserResolver maps an access token to the user it was issued to.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// UserLookup is what the admin session check needs from the user store.
type UserLookup interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ErrorResponder writes an error response and aborts the request.
type ErrorResponder func(c *gin.Context, err error)

// TokenAuth resolves the access_token cookie into a user and stores it in the
// context. Any failure is handed to fail unchanged, so missing, malformed and
// expired tokens can be told apart by the client.
func TokenAuth(users UserResolver, fail ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(TokenCookie)
		user, err := users.CurrentUser(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by TokenAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// AdminIdentity is what the admin session remembers about the logged-in user.
type AdminIdentity struct {
	UserID uint
	Email  string
}

// AdminSession lets a request through only when it carries an admin session for
// a user that still exists. Everything else is redirected to the login page; a
// session for a deleted user is cleared first.
func AdminSession(store sessions.Store, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, AdminSessionName)
		if err != nil {
			// Undecodable cookie, e.g. after a key rotation. Start over.
			log.Printf("[ADMIN] session decode: %v", err)
		}
		id, _ := sess.Values["user_id"].(uint)
		email, _ := sess.Values["email"].(string)
		if id == 0 || email == "" {
			redirectToLogin(c)
			return
		}

		ok, err := users.Exists(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !ok {
			ClearAdminSession(c, store)
			redirectToLogin(c)
			return
		}
		c.Set(adminUserKey, AdminIdentity{UserID: id, Email: email})
		c.Next()
	}
}

// SaveAdminSession starts an admin session for user.
func SaveAdminSession(c *gin.Context, store sessions.Store, user *models.User) error {
	sess, _ := store.Get(c.Request, AdminSessionName)
	sess.Values["user_id"] = user.ID
	sess.Values["email"] = user.Email
	return sess.Save(c.Request, c.Writer)
}

// ClearAdminSession expires the admin session cookie.
func ClearAdminSession(c *gin.Context, store sessions.Store) {
	sess, _ := store.Get(c.Request, AdminSessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request, c.Writer); err != nil {
		log.Printf("[ADMIN] clear session: %v", err)
	}
}

// CurrentAdmin returns the identity set by AdminSession.
func CurrentAdmin(c *gin.Context) (AdminIdentity, bool) {
	v, ok := c.Get(adminUserKey)
	if !ok {
		return AdminIdentity{}, false
	}
	id, ok := v.(AdminIdentity)
	return id, ok
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/admin/login")
	c.Abort()
}
