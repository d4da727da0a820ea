package session

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/utils"
)

const csrfTokenBytes = 32

// CSRFToken returns the session's anti-forgery token, generating it on
// first access.  One token lives for the whole session; rotation happens
// implicitly when the session identifier rotates at login.
func (m *Manager) CSRFToken(c echo.Context) string {
	sess := m.Current(c)
	if sess.CSRFToken == "" {
		tok, err := utils.RandomHex(csrfTokenBytes)
		if err != nil {
			panic(err)
		}
		sess.CSRFToken = tok
	}
	return sess.CSRFToken
}

// ValidateCSRF compares a submitted token against the session's token in
// constant time.  A session that never issued a token rejects everything.
func (m *Manager) ValidateCSRF(c echo.Context, token string) bool {
	sess := m.Current(c)
	if sess.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sess.CSRFToken), []byte(token)) == 1
}
