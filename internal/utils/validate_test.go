package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("owner@example.com"))
	assert.True(t, ValidEmail("first.last+tag@strata.example.org"))

	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("missing@domain @space"))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("Abcdef12"))
	assert.True(t, ValidPassword("longEnough99"))

	assert.False(t, ValidPassword("Short1"))       // under eight characters
	assert.False(t, ValidPassword("alllower123"))  // no uppercase
	assert.False(t, ValidPassword("ALLUPPER123"))  // no lowercase
	assert.False(t, ValidPassword("NoDigitsHere")) // no digit
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("bob"))
	assert.True(t, ValidUsername("  padded  "))

	assert.False(t, ValidUsername("ab"))
	assert.False(t, ValidUsername("   a   "))
	assert.False(t, ValidUsername(""))
}
