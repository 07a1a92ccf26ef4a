package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice_01", false},
		{"min length", "abc", false},
		{"max length", strings.Repeat("a", 30), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 31), true},
		{"illegal chars", "alice!", true},
		{"spaces", "ali ce", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, "username", err.Field)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, ValidateEmail("a@x.com"))
	for _, email := range []string{"", "a", "a@", "@x.com", "a x@x.com", "a@x"} {
		err := ValidateEmail(email)
		require.NotNil(t, err, "email %q should fail", email)
		assert.Equal(t, "email", err.Field)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Nil(t, ValidatePassword("secret1"))
	assert.Nil(t, ValidatePassword("secret"))
	require.NotNil(t, ValidatePassword("short"))
}

func TestValidateSignup_CollectsAllFailures(t *testing.T) {
	errs := ValidateSignup("a!", "not-an-email", "pw")
	require.Len(t, errs, 3)

	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.Equal(t, []string{"username", "email", "password"}, fields)
}

func TestValidateSignup_Valid(t *testing.T) {
	assert.Empty(t, ValidateSignup("alice", "a@x.com", "secret1"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.COM "))
}
