package service

import (
	"context"

	"qbank/internal/model"
	"qbank/internal/repository"
)

// BankService handles question-bank CRUD operations
type BankService struct {
	bankRepo repository.BankRepo
}

// NewBankService creates a new bank service
func NewBankService(bankRepo repository.BankRepo) *BankService {
	return &BankService{
		bankRepo: bankRepo,
	}
}

// Create creates a new bank
func (s *BankService) Create(ctx context.Context, bank *model.Bank) (string, error) {
	return s.bankRepo.Create(ctx, bank)
}

// GetByID retrieves a bank by ID
func (s *BankService) GetByID(ctx context.Context, id string) (*model.Bank, error) {
	return s.bankRepo.GetByID(ctx, id)
}

// GetByHostID retrieves all banks for a host
func (s *BankService) GetByHostID(ctx context.Context, hostID string) ([]*model.Bank, error) {
	return s.bankRepo.GetByHostID(ctx, hostID)
}

// Update updates an existing bank
func (s *BankService) Update(ctx context.Context, bank *model.Bank) error {
	return s.bankRepo.Update(ctx, bank)
}

// Delete deletes a bank
func (s *BankService) Delete(ctx context.Context, id string) error {
	return s.bankRepo.Delete(ctx, id)
}
