package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"hindsight/internal/company/models"
	id "hindsight/pkg/domain"
	"hindsight/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded company store.
type InMemory struct {
	mu        sync.RWMutex
	companies map[id.CompanyID]*models.Company
	byName    map[string]id.CompanyID
}

// NewInMemory constructs an empty in-memory company store.
func NewInMemory() *InMemory {
	return &InMemory{
		companies: make(map[id.CompanyID]*models.Company),
		byName:    make(map[string]id.CompanyID),
	}
}

func (s *InMemory) Create(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(company.Name)
	if _, taken := s.byName[key]; taken {
		return sentinel.ErrConflict
	}
	if _, exists := s.companies[company.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *company
	s.companies[company.ID] = &clone
	s.byName[key] = company.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, companyID id.CompanyID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *company
	return &clone, nil
}

func (s *InMemory) UpdatePlan(_ context.Context, companyID id.CompanyID, plan models.Plan, now time.Time) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	company.Plan = plan
	company.UpdatedAt = now
	clone := *company
	return &clone, nil
}

func (s *InMemory) UpdateCredentialHash(_ context.Context, companyID id.CompanyID, hash string, now time.Time) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	company.CredentialHash = hash
	company.UpdatedAt = now
	clone := *company
	return &clone, nil
}
