package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epcorn/pestops-contracts/internal/model"
)

type ChemicalService struct {
	chemicals ChemicalStore
}

func NewChemicalService(chemicals ChemicalStore) *ChemicalService {
	return &ChemicalService{chemicals: chemicals}
}

func (s *ChemicalService) List(ctx context.Context) ([]model.Chemical, error) {
	return s.chemicals.List(ctx)
}

func (s *ChemicalService) Create(ctx context.Context, name string) (*model.Chemical, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: chemical name is required", ErrInvalidInput)
	}
	return s.chemicals.Create(ctx, name)
}

func (s *ChemicalService) AddBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error) {
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return nil, fmt.Errorf("%w: batchNo is required", ErrInvalidInput)
	}
	chemical, err := s.chemicals.AddBatchNo(ctx, id, batchNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return chemical, nil
}

func (s *ChemicalService) RemoveBatchNo(ctx context.Context, id uuid.UUID, batchNo string) (*model.Chemical, error) {
	chemical, err := s.chemicals.RemoveBatchNo(ctx, id, batchNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return chemical, nil
}

func (s *ChemicalService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.chemicals.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
