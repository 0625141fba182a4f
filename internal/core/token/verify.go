package token

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type KeyType string

const (
	KeyHMAC    KeyType = "hmac"
	KeyRSA     KeyType = "rsa"
	KeyECDSA   KeyType = "ecdsa"
	KeyEd25519 KeyType = "ed25519"
)

type Verified struct {
	*Decoded
	KeyType KeyType `json:"keyType"`
}

// Verify checks the signature of raw against key. PEM input is read as a
// public key or certificate; anything else is an HMAC secret. Time-based
// claims are reported, not enforced.
func Verify(raw string, key []byte) (*Verified, error) {
	d, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	pub, kt, err := ParseKey(key)
	if err != nil {
		return nil, err
	}

	p := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, err = p.Parse(d.Raw, func(t *jwt.Token) (any, error) {
		if !methodMatches(t.Method, kt) {
			return nil, fmt.Errorf("%w: %s with %s key", ErrAlgorithmMismatch, t.Method.Alg(), kt)
		}
		return pub, nil
	})
	switch {
	case err == nil:
		return &Verified{Decoded: d, KeyType: kt}, nil
	case errors.Is(err, ErrAlgorithmMismatch):
		return nil, fmt.Errorf("%w: %s with %s key", ErrAlgorithmMismatch, d.Algorithm, kt)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return nil, ErrSignature
	default:
		return nil, fmt.Errorf("%w: %w", ErrSignature, err)
	}
}

// ParseKey classifies key material for Verify.
func ParseKey(key []byte) (any, KeyType, error) {
	trimmed := bytes.TrimSpace(key)
	if len(trimmed) == 0 {
		return nil, "", fmt.Errorf("%w: empty key", ErrUnsupportedKey)
	}
	if !bytes.HasPrefix(trimmed, []byte("-----BEGIN")) {
		return key, KeyHMAC, nil
	}

	if k, err := jwt.ParseRSAPublicKeyFromPEM(trimmed); err == nil {
		return k, KeyRSA, nil
	}
	if k, err := jwt.ParseECPublicKeyFromPEM(trimmed); err == nil {
		return k, KeyECDSA, nil
	}
	if k, err := jwt.ParseEdPublicKeyFromPEM(trimmed); err == nil {
		return k, KeyEd25519, nil
	}
	return nil, "", fmt.Errorf("%w: unrecognized PEM public key", ErrUnsupportedKey)
}

func methodMatches(m jwt.SigningMethod, kt KeyType) bool {
	switch m.(type) {
	case *jwt.SigningMethodHMAC:
		return kt == KeyHMAC
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		return kt == KeyRSA
	case *jwt.SigningMethodECDSA:
		return kt == KeyECDSA
	case *jwt.SigningMethodEd25519:
		return kt == KeyEd25519
	}
	return false
}
