package patient

import (
	"context"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

// Repository adds joined reads and search to the generic contract. FindAll
// joins the implant, FindByID the implant and its processor.
type Repository interface {
	crud.Repository[Patient]
	// Search matches term against nom, prenom and email, case-insensitively.
	Search(ctx context.Context, term string) ([]*Patient, error)
}
