package implant

import (
	"context"
	"errors"

	"github.com/Maramoubouare/FOLLOWUP/internal/domain/incident"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/reglage"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

type Service struct {
	repo      Repository
	reglages  ReglageFinder
	incidents IncidentLister
	today     func() civil.Date
}

func NewService(repo Repository, reglages ReglageFinder, incidents IncidentLister) *Service {
	return &Service{repo: repo, reglages: reglages, incidents: incidents, today: civil.Today}
}

func (s *Service) get(ctx context.Context, id int64) (*Implant, error) {
	i, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, &crud.NotFoundError{Entity: "Implant", ID: id}
	}
	return i, err
}

func (s *Service) Reglages(ctx context.Context, id int64) ([]*reglage.Reglage, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.reglages.FindWhere(ctx, "id_implant", id)
}

func (s *Service) Incidents(ctx context.Context, id int64) ([]*incident.Incident, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	return s.incidents.ListByImplant(ctx, id)
}

func (s *Service) Statistiques(ctx context.Context, id int64) (*Statistiques, error) {
	i, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	reglages, incidents, err := s.repo.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Statistiques{
		Anciennete:  s.today().DaysSince(i.DatePose),
		NbReglages:  reglages,
		NbIncidents: incidents,
	}, nil
}
