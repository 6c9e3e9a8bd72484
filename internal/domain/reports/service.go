package reports

import (
	"context"
	"time"
)

type Service struct {
	Store *Store

	Now func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

// Summary assembles the KPI bundle. departmentID narrows every section; an
// admin passes "" for the whole company.
func (s *Service) Summary(ctx context.Context, departmentID string) (Summary, error) {
	headcount, err := s.Store.HeadcountByDepartment(ctx, departmentID)
	if err != nil {
		return Summary{}, err
	}
	evaluations, err := s.Store.EvaluationAverages(ctx, departmentID, 6)
	if err != nil {
		return Summary{}, err
	}
	recognition, err := s.Store.RecognitionByMonth(ctx, departmentID, 6)
	if err != nil {
		return Summary{}, err
	}
	expenses, err := s.Store.ExpensesByStatus(ctx, departmentID)
	if err != nil {
		return Summary{}, err
	}
	checkins, err := s.Store.CheckinParticipation(ctx, departmentID, s.Now())
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Headcount:       headcount,
		Evaluations:     evaluations,
		Recognition:     recognition,
		Expenses:        expenses,
		Checkins:        checkins,
		DepartmentScope: departmentID,
	}, nil
}
