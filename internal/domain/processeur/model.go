package processeur

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

const (
	BatterieRechargeable = "Rechargeable"
	BatteriePiles        = "Piles"
)

// Processeur is an external sound processor.
type Processeur struct {
	ID               int64      `json:"id" db:"id"`
	TypeProcesseur   string     `json:"typeProcesseur" db:"type_processeur" validate:"required,max=100"`
	DateInstallation civil.Date `json:"dateInstallation" db:"date_installation" validate:"required,notfuture"`
	Batterie         string     `json:"batterie" db:"batterie" validate:"required,oneof=Rechargeable Piles"`
}

type UpdateRequest struct {
	TypeProcesseur   *string     `json:"typeProcesseur" validate:"omitnil,min=1,max=100"`
	DateInstallation *civil.Date `json:"dateInstallation" validate:"omitempty,notfuture"`
	Batterie         *string     `json:"batterie" validate:"omitnil,oneof=Rechargeable Piles"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.TypeProcesseur != nil {
		ch = ch.Set("type_processeur", *r.TypeProcesseur)
	}
	if r.DateInstallation != nil && !r.DateInstallation.IsZero() {
		ch = ch.Set("date_installation", *r.DateInstallation)
	}
	if r.Batterie != nil {
		ch = ch.Set("batterie", *r.Batterie)
	}
	return ch
}
