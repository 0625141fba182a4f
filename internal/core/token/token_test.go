package token

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte("top-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func pemPublic(t *testing.T, pub any) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func TestDecode(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"sub":  "user-1",
		"exp":  exp.Unix(),
		"iat":  exp.Add(-time.Hour).Unix(),
		"role": "admin",
	})

	d, err := Decode("Bearer " + raw)
	require.NoError(t, err)
	require.Equal(t, "HS256", d.Algorithm)
	require.NotEmpty(t, d.Signature)

	typ, ok := d.Header.Get("typ")
	require.True(t, ok)
	require.Equal(t, "JWT", typ.AsString())

	sub, ok := d.Claims.Get("sub")
	require.True(t, ok)
	require.Equal(t, "user-1", sub.AsString())

	require.NotNil(t, d.ExpiresAt)
	require.True(t, exp.Equal(*d.ExpiresAt))
	require.NotNil(t, d.IssuedAt)
	require.Nil(t, d.NotBefore)

	require.False(t, d.ExpiredAt(exp.Add(-time.Second)))
	require.True(t, d.ExpiredAt(exp))
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b", "!!.??.sig"} {
		_, err := Decode(raw)
		require.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestDecodeWithoutExpiry(t *testing.T) {
	d, err := Decode(sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"a": 1}))
	require.NoError(t, err)
	require.Nil(t, d.ExpiresAt)
	require.False(t, d.Expired)
	require.False(t, d.ExpiredAt(time.Now().Add(100*365*24*time.Hour)))
}

func TestVerifyHMAC(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": "x"})

	v, err := Verify(raw, secret)
	require.NoError(t, err)
	require.Equal(t, KeyHMAC, v.KeyType)
	require.Equal(t, "HS512", v.Algorithm)

	_, err = Verify(raw, []byte("wrong"))
	require.ErrorIs(t, err, ErrSignature)
}

func TestVerifyExpiredStillVerifies(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	v, err := Verify(raw, secret)
	require.NoError(t, err)
	require.True(t, v.Expired)
}

func TestVerifyPublicKeys(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Run("ecdsa", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodES256, ecKey, jwt.MapClaims{"sub": "x"})
		v, err := Verify(raw, pemPublic(t, &ecKey.PublicKey))
		require.NoError(t, err)
		require.Equal(t, KeyECDSA, v.KeyType)
	})

	t.Run("ed25519", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodEdDSA, edPriv, jwt.MapClaims{"sub": "x"})
		v, err := Verify(raw, pemPublic(t, edPub))
		require.NoError(t, err)
		require.Equal(t, KeyEd25519, v.KeyType)
	})

	t.Run("wrong key of same family", func(t *testing.T) {
		other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		raw := sign(t, jwt.SigningMethodES256, ecKey, jwt.MapClaims{"sub": "x"})
		_, err = Verify(raw, pemPublic(t, &other.PublicKey))
		require.ErrorIs(t, err, ErrSignature)
	})

	t.Run("algorithm mismatch", func(t *testing.T) {
		raw := sign(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "x"})
		_, err := Verify(raw, pemPublic(t, edPub))
		require.ErrorIs(t, err, ErrAlgorithmMismatch)
	})
}

func TestParseKey(t *testing.T) {
	_, _, err := ParseKey([]byte("  "))
	require.ErrorIs(t, err, ErrUnsupportedKey)

	_, _, err = ParseKey([]byte("-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"))
	require.ErrorIs(t, err, ErrUnsupportedKey)

	_, kt, err := ParseKey([]byte("plain"))
	require.NoError(t, err)
	require.Equal(t, KeyHMAC, kt)
}
