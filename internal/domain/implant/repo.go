package implant

import (
	"context"

	"github.com/Maramoubouare/FOLLOWUP/internal/domain/incident"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/reglage"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

type Repository interface {
	crud.Repository[Implant]
	// Counts returns the number of réglages and incidents recorded on the implant.
	Counts(ctx context.Context, id int64) (reglages, incidents int, err error)
}

// ReglageFinder is the part of the réglage repository used here.
type ReglageFinder interface {
	FindWhere(ctx context.Context, column string, value interface{}) ([]*reglage.Reglage, error)
}

type IncidentLister interface {
	ListByImplant(ctx context.Context, implantID int64) ([]*incident.Incident, error)
}
