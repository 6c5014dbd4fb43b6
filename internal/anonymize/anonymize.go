// Package anonymize converts raw candidate identifiers into one-way tokens.
//
// The token is a keyed BLAKE2b-256 digest over the raw identifier, keyed with
// the owning company's salt. Determinism within a tenant makes records about
// the same candidate correlate by equal tokens; distinct per-tenant keys stop
// correlation across tenants. Nothing downstream of this package ever sees
// the raw identifier, and no code path accepts a token and recovers it.
package anonymize

import (
	"context"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"

	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

// SaltSource yields the per-tenant hashing key. In production this is the
// company service; tests supply a fixed salt.
type SaltSource interface {
	Salt(ctx context.Context, companyID id.CompanyID) ([]byte, error)
}

// Hasher produces candidate tokens.
type Hasher struct {
	salts SaltSource
}

// NewHasher constructs a Hasher over the given salt source.
func NewHasher(salts SaltSource) *Hasher {
	return &Hasher{salts: salts}
}

// Token hashes a raw candidate identifier into the tenant-scoped token.
// The raw identifier is normalized (trimmed, lowercased) so trivially
// different submissions of the same candidate still correlate, then
// discarded; only the token leaves this function.
func (h *Hasher) Token(ctx context.Context, companyID id.CompanyID, rawID string) (id.CandidateToken, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawID))
	if normalized == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "candidate identifier is required")
	}

	salt, err := h.salts.Salt(ctx, companyID)
	if err != nil {
		return "", err
	}
	key := salt
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	mac, err := blake2b.New256(key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash candidate identifier")
	}
	mac.Write([]byte(normalized))
	return id.CandidateToken(hex.EncodeToString(mac.Sum(nil))), nil
}
