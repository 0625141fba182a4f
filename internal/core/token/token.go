// Package token inspects JSON Web Tokens. Decode never checks signatures;
// Verify delegates all cryptography to golang-jwt.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

var (
	ErrMalformed         = errors.New("malformed token")
	ErrUnsupportedKey    = errors.New("unsupported verification key")
	ErrAlgorithmMismatch = errors.New("token algorithm does not match key")
	ErrSignature         = errors.New("signature verification failed")
)

// Decoded is a token split into its parts. Header and Claims keep the
// member order of the encoded JSON.
type Decoded struct {
	Raw       string          `json:"-"`
	Header    jsonvalue.Value `json:"header"`
	Claims    jsonvalue.Value `json:"claims"`
	Signature string          `json:"signature"`
	Algorithm string          `json:"algorithm"`
	IssuedAt  *time.Time      `json:"issuedAt,omitempty"`
	NotBefore *time.Time      `json:"notBefore,omitempty"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	Expired   bool            `json:"expired"`
}

// ExpiredAt reports whether the token is past its exp claim at t.
// Tokens without exp never expire.
func (d *Decoded) ExpiredAt(t time.Time) bool {
	return d.ExpiresAt != nil && !t.Before(*d.ExpiresAt)
}

// Decode parses raw without verifying it. A leading "Bearer " is ignored.
func Decode(raw string) (*Decoded, error) {
	raw = trimBearer(raw)

	p := jwt.NewParser()
	claims := jwt.MapClaims{}
	tok, parts, err := p.ParseUnverified(raw, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	d := &Decoded{Raw: raw, Signature: parts[2]}
	if alg, ok := tok.Header["alg"].(string); ok {
		d.Algorithm = alg
	}

	if d.Header, err = decodeSegment(p, parts[0]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	if d.Claims, err = decodeSegment(p, parts[1]); err != nil {
		return nil, fmt.Errorf("%w: claims: %w", ErrMalformed, err)
	}

	if d.IssuedAt, err = numericDate(claims.GetIssuedAt()); err != nil {
		return nil, fmt.Errorf("%w: iat: %w", ErrMalformed, err)
	}
	if d.NotBefore, err = numericDate(claims.GetNotBefore()); err != nil {
		return nil, fmt.Errorf("%w: nbf: %w", ErrMalformed, err)
	}
	if d.ExpiresAt, err = numericDate(claims.GetExpirationTime()); err != nil {
		return nil, fmt.Errorf("%w: exp: %w", ErrMalformed, err)
	}
	d.Expired = d.ExpiredAt(time.Now())
	return d, nil
}

func decodeSegment(p *jwt.Parser, seg string) (jsonvalue.Value, error) {
	b, err := p.DecodeSegment(seg)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	return jsonvalue.ParseBytes(b)
}

func numericDate(d *jwt.NumericDate, err error) (*time.Time, error) {
	if err != nil || d == nil {
		return nil, err
	}
	t := d.Time.UTC()
	return &t, nil
}

func trimBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	return raw
}
