package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenStablePerSession(t *testing.T) {
	m, _, _ := newTestManager(&fakeUsers{})
	c, _ := newCtx()

	tok := m.CSRFToken(c)
	require.NotEmpty(t, tok)
	assert.Equal(t, tok, m.CSRFToken(c), "one token per session")
}

func TestCSRFTokensDifferAcrossSessions(t *testing.T) {
	m, _, _ := newTestManager(&fakeUsers{})
	c1, _ := newCtx()
	c2, _ := newCtx()

	tok1 := m.CSRFToken(c1)
	tok2 := m.CSRFToken(c2)
	require.NotEmpty(t, tok1)
	require.NotEmpty(t, tok2)
	assert.NotEqual(t, tok1, tok2, "two fresh sessions must not share a token")

	// Nor does one session's token pass on the other.
	assert.False(t, m.ValidateCSRF(c1, tok2))
	assert.False(t, m.ValidateCSRF(c2, tok1))
}

func TestValidateCSRF(t *testing.T) {
	m, _, _ := newTestManager(&fakeUsers{})
	c, _ := newCtx()
	tok := m.CSRFToken(c)

	assert.True(t, m.ValidateCSRF(c, tok))
	assert.False(t, m.ValidateCSRF(c, "forged"))
	assert.False(t, m.ValidateCSRF(c, ""))
}

func TestValidateCSRFWithoutIssuedToken(t *testing.T) {
	m, _, _ := newTestManager(&fakeUsers{})
	c, _ := newCtx()

	// A session that never asked for a token accepts nothing.
	assert.False(t, m.ValidateCSRF(c, "anything"))
	assert.False(t, m.ValidateCSRF(c, ""))
}

func TestCSRFTokenRotatesWithLogin(t *testing.T) {
	m, _, _ := newTestManager(&fakeUsers{})
	c, _ := newCtx()

	before := m.CSRFToken(c)
	m.Login(c, testOwner)
	after := m.CSRFToken(c)
	assert.NotEqual(t, before, after, "session rotation at login discards the old token")
}
