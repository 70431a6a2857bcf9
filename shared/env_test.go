package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetenv(t *testing.T) {
	t.Setenv("GAMEREC_TEST_STRING", "  value ")
	t.Setenv("GAMEREC_TEST_BOOL", "true")
	t.Setenv("GAMEREC_TEST_INT", "nope")
	t.Setenv("GAMEREC_TEST_BLANK", "   ")

	s, err := Getenv(GetenvString, "GAMEREC_TEST_STRING", true, "")
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	b, err := Getenv(GetenvBool, "GAMEREC_TEST_BOOL", false, false)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Getenv(GetenvInt, "GAMEREC_TEST_INT", false, 0)
	assert.Error(t, err)

	d, err := Getenv(GetenvString, "GAMEREC_TEST_BLANK", false, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", d)

	_, err = Getenv(GetenvString, "GAMEREC_TEST_UNSET", true, "")
	assert.ErrorIs(t, err, ErrRequiredEnv)
}

func TestMustGetenvPanicsOnMissingRequired(t *testing.T) {
	assert.Panics(t, func() {
		MustGetenv(GetenvString, "GAMEREC_TEST_UNSET", true, "")
	})
	assert.Equal(t, 7, MustGetenv(GetenvInt, "GAMEREC_TEST_UNSET", false, 7))
}
