package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-secret")

func TestOwnerJWT(t *testing.T) {
	ownerID := uuid.NewString()

	token, err := GenerateOwnerJWT(ownerID, time.Hour, testKey)
	require.NoError(t, err)

	got, err := ParseOwnerJWT(token, testKey)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

func TestParseOwnerJWT_Errors(t *testing.T) {
	expired, err := GenerateOwnerJWT(uuid.NewString(), -time.Minute, testKey)
	require.NoError(t, err)

	foreign, err := GenerateOwnerJWT(uuid.NewString(), time.Hour, []byte("other-key"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, OwnerClaims{OwnerID: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	emptyOwner, err := GenerateOwnerJWT("", time.Hour, testKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "expired", token: expired, want: ErrTokenExpired},
		{name: "wrong key", token: foreign, want: ErrInvalidToken},
		{name: "none alg", token: noneAlg, want: ErrInvalidToken},
		{name: "garbage", token: "not.a.token", want: ErrInvalidToken},
		{name: "empty owner", token: emptyOwner, want: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, parseErr := ParseOwnerJWT(tt.token, testKey)
			assert.ErrorIs(t, parseErr, tt.want)
		})
	}
}
