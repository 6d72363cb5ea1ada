// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the staff authentication gate. The dashboard has two
// caller populations with different capabilities:
//
//   - staff browsers, which can send an Authorization header, and
//   - carrier webhooks / phone-system automations, which can only append
//     query parameters to a preconfigured URL.
//
// Both check against the same secret pair. The Basic-Auth gate covers every
// route except the carrier-facing prefixes, which instead run the
// query-parameter check (QuerySecret). Credential comparison uses
// constant-time equality.
//
// When the secrets are not configured, both checks fail closed: no request
// passes rather than every request passing.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// codeUnauthorized is the stable error code on 401 envelopes from both
// authentication checks.
const codeUnauthorized = "unauthorized"

// AuthSecrets holds the configured credential pair shared by the Basic-Auth
// gate and the query-parameter check.
type AuthSecrets struct {
	Username string
	Password string
}

// Configured reports whether both secrets are set.
func (a AuthSecrets) Configured() bool {
	return a.Username != "" && a.Password != ""
}

// match compares a submitted pair against the secrets in constant time.
func (a AuthSecrets) match(user, pass string) bool {
	if !a.Configured() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.Password)) == 1
	return userOK && passOK
}

// BasicAuthGate returns a middleware enforcing HTTP Basic-Auth on every
// request whose path does not start with one of exemptPrefixes. Exempt
// routes are expected to run QuerySecret instead.
//
// Failures answer 401 with a WWW-Authenticate challenge so browsers prompt
// for credentials.
func BasicAuthGate(secrets AuthSecrets, exemptPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range exemptPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !secrets.match(user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="ops dashboard"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized: Invalid credentials",
				"code":    codeUnauthorized,
			})
			return
		}
		c.Next()
	}
}

// QuerySecret returns a middleware checking the username/password query
// parameters against the secrets. Carrier-side integrations (webhook
// deliveries, phone-system hooks) authenticate this way because they cannot
// set headers.
func QuerySecret(secrets AuthSecrets) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.Query("username")
		pass := c.Query("password")
		if !secrets.match(user, pass) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Unauthorized: Invalid credentials",
				"code":    codeUnauthorized,
			})
			return
		}
		c.Next()
	}
}
