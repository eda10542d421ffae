package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginLogout(t *testing.T) {
	s := New()
	assert.False(t, s.LoggedIn())
	assert.EqualValues(t, 0, s.UserID())

	s.Login(42)
	assert.True(t, s.LoggedIn())
	assert.EqualValues(t, 42, s.UserID())

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.EqualValues(t, 0, s.UserID())
}
