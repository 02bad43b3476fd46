package services

import (
	"context"

	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
)

// ReportService answers the read-only borrow queries.
type ReportService struct {
	borrows BorrowReader
	clock   Clock
}

func NewReportService(borrows BorrowReader, opts Options) *ReportService {
	opts = opts.withDefaults()
	return &ReportService{borrows: borrows, clock: opts.Clock}
}

// List returns one page of the borrows matching q, newest first.
func (s *ReportService) List(ctx context.Context, q BorrowQuery, req PageRequest) (Page[entities.BorrowRecord], error) {
	filter, err := ParseBorrowFilter(q, s.clock())
	if err != nil {
		return Page[entities.BorrowRecord]{}, err
	}
	records, total, err := s.borrows.ListBorrowRecords(ctx, filter, req.Offset(), req.Limit)
	if err != nil {
		return Page[entities.BorrowRecord]{}, err
	}
	return newPage(records, total, req), nil
}

// All returns every borrow matching q, newest first. Used for exports.
func (s *ReportService) All(ctx context.Context, q BorrowQuery) ([]entities.BorrowRecord, error) {
	filter, err := ParseBorrowFilter(q, s.clock())
	if err != nil {
		return nil, err
	}
	records, _, err := s.borrows.ListBorrowRecords(ctx, filter, 0, -1)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entities.BorrowRecord{}
	}
	return records, nil
}

// Overdue lists active borrows past their due date.
func (s *ReportService) Overdue(ctx context.Context, req PageRequest) (Page[entities.BorrowRecord], error) {
	return s.List(ctx, BorrowQuery{State: string(entities.BorrowStateOverdue)}, req)
}

func (s *ReportService) Get(ctx context.Context, id uint) (*entities.BorrowRecord, error) {
	return s.borrows.GetBorrowRecord(ctx, id, s.clock().UTC())
}
