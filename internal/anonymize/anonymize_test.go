package anonymize

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "hindsight/pkg/domain"
	dErrors "hindsight/pkg/domain-errors"
)

type fixedSalts map[id.CompanyID][]byte

func (f fixedSalts) Salt(_ context.Context, companyID id.CompanyID) ([]byte, error) {
	salt, ok := f[companyID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "company not found")
	}
	return salt, nil
}

type HasherSuite struct {
	suite.Suite
	hasher  *Hasher
	tenantA id.CompanyID
	tenantB id.CompanyID
}

func TestHasherSuite(t *testing.T) {
	suite.Run(t, new(HasherSuite))
}

func (s *HasherSuite) SetupTest() {
	s.tenantA = id.CompanyID(uuid.New())
	s.tenantB = id.CompanyID(uuid.New())
	s.hasher = NewHasher(fixedSalts{
		s.tenantA: []byte("salt-for-tenant-a-0123456789abcd"),
		s.tenantB: []byte("salt-for-tenant-b-0123456789abcd"),
	})
}

func (s *HasherSuite) TestToken() {
	ctx := context.Background()

	s.Run("same input yields same token", func() {
		first, err := s.hasher.Token(ctx, s.tenantA, "alice@example.com")
		s.Require().NoError(err)
		second, err := s.hasher.Token(ctx, s.tenantA, "alice@example.com")
		s.Require().NoError(err)
		s.Equal(first, second)
	})

	s.Run("case and whitespace differences still correlate", func() {
		plain, err := s.hasher.Token(ctx, s.tenantA, "alice@example.com")
		s.Require().NoError(err)
		messy, err := s.hasher.Token(ctx, s.tenantA, "  Alice@Example.COM ")
		s.Require().NoError(err)
		s.Equal(plain, messy)
	})

	s.Run("tenants produce different tokens for the same candidate", func() {
		tokenA, err := s.hasher.Token(ctx, s.tenantA, "alice@example.com")
		s.Require().NoError(err)
		tokenB, err := s.hasher.Token(ctx, s.tenantB, "alice@example.com")
		s.Require().NoError(err)
		s.NotEqual(tokenA, tokenB)
	})

	s.Run("token does not contain the raw identifier", func() {
		token, err := s.hasher.Token(ctx, s.tenantA, "alice@example.com")
		s.Require().NoError(err)
		s.NotContains(strings.ToLower(string(token)), "alice")
		s.Len(string(token), 64)
	})

	s.Run("empty identifier is invalid", func() {
		_, err := s.hasher.Token(ctx, s.tenantA, "   ")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown tenant propagates the salt lookup error", func() {
		_, err := s.hasher.Token(ctx, id.CompanyID(uuid.New()), "alice@example.com")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
