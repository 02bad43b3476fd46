package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

type BorrowerService struct {
	borrowers BorrowerStore
	borrows   BorrowReader
	log       *zap.Logger
	auditor   Auditor
}

func NewBorrowerService(borrowers BorrowerStore, borrows BorrowReader, opts Options) *BorrowerService {
	opts = opts.withDefaults()
	return &BorrowerService{borrowers: borrowers, borrows: borrows, log: opts.Logger, auditor: opts.Auditor}
}

func (s *BorrowerService) Create(ctx context.Context, in BorrowerInput) (*entities.Borrower, error) {
	borrower, err := in.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.borrowers.CreateBorrower(ctx, &borrower); err != nil {
		return nil, err
	}
	s.log.Info("Borrower created", zap.Uint("borrower_id", borrower.ID))
	s.auditor.LogCreate(ctx, "borrower", borrower.ID)
	return &borrower, nil
}

func (s *BorrowerService) Get(ctx context.Context, id uint) (*entities.Borrower, error) {
	return s.borrowers.GetBorrowerByID(ctx, id)
}

func (s *BorrowerService) Update(ctx context.Context, id uint, in BorrowerInput) (*entities.Borrower, error) {
	changes, err := in.Validate()
	if err != nil {
		return nil, err
	}
	borrower, err := s.borrowers.GetBorrowerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	borrower.Name = changes.Name
	borrower.Email = changes.Email
	if err := s.borrowers.UpdateBorrower(ctx, borrower); err != nil {
		return nil, err
	}
	s.log.Info("Borrower updated", zap.Uint("borrower_id", id))
	s.auditor.LogUpdate(ctx, "borrower", id)
	return borrower, nil
}

func (s *BorrowerService) Delete(ctx context.Context, id uint) error {
	if err := s.borrowers.DeleteBorrower(ctx, id); err != nil {
		return err
	}
	s.log.Info("Borrower deleted", zap.Uint("borrower_id", id))
	s.auditor.LogDelete(ctx, "borrower", id)
	return nil
}

// List returns a page of borrowers sorted by name.
func (s *BorrowerService) List(ctx context.Context, req PageRequest) (Page[entities.Borrower], error) {
	borrowers, total, err := s.borrowers.ListBorrowers(ctx, req.Offset(), req.Limit)
	if err != nil {
		return Page[entities.Borrower]{}, err
	}
	return newPage(borrowers, total, req), nil
}

// ActiveBorrows returns the books the borrower currently has out.
func (s *BorrowerService) ActiveBorrows(ctx context.Context, id uint) ([]entities.Borrow, error) {
	if _, err := s.borrowers.GetBorrowerByID(ctx, id); err != nil {
		return nil, err
	}
	borrows, err := s.borrows.ListActiveBorrowsForBorrower(ctx, id)
	if err != nil {
		return nil, err
	}
	if borrows == nil {
		borrows = []entities.Borrow{}
	}
	return borrows, nil
}
