// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity. The tracker has no login flow:
// a trusted proxy (or a test) names the user in X-User-ID, and requests
// without it act on behalf of a configured default user. Downstream
// middleware and handlers read the result through UserIDFrom.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID names the request header that carries the caller's user ID.
const HeaderUserID = "X-User-ID"

const (
	ctxKeyUserID    = "userID"
	ctxKeyAnonymous = "userID.anonymous" // bool: identity fell back to the default
	maxUserIDLen    = 64
)

// DefaultUserID is used when neither the context nor the request names a user.
const DefaultUserID = "demo-user"

// Identity stores the caller's user ID in the Gin context. The X-User-ID header
// wins; otherwise defaultUser (or DefaultUserID when empty) is used and the
// request is marked anonymous so rate limiting can key it by IP instead.
// IDs longer than 64 bytes are rejected with 400 since they cannot be stored.
func Identity(defaultUser string) gin.HandlerFunc {
	if defaultUser = strings.TrimSpace(defaultUser); defaultUser == "" {
		defaultUser = DefaultUserID
	}
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if uid == "" {
			c.Set(ctxKeyUserID, defaultUser)
			c.Set(ctxKeyAnonymous, true)
			c.Next()
			return
		}
		if len(uid) > maxUserIDLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    "X-User-ID too long",
			})
			return
		}
		c.Set(ctxKeyUserID, uid)
		c.Next()
	}
}

// UserIDFrom returns the caller's user ID: the value stored by Identity (or
// any upstream auth middleware under "userID"), then the X-User-ID header,
// then DefaultUserID.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
			return h
		}
	}
	return DefaultUserID
}

// IsAnonymous reports whether Identity fell back to the default user.
func IsAnonymous(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyAnonymous)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
