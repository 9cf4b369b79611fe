package patient

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// Patient is both the stored record and the create payload. The implant and
// processor fields are read-only and filled by joined queries.
type Patient struct {
	ID               int64       `json:"id" db:"id"`
	Nom              string      `json:"nom" db:"nom" validate:"required,max=100"`
	Prenom           string      `json:"prenom" db:"prenom" validate:"required,max=100"`
	DateNaissance    civil.Date  `json:"dateNaissance" db:"date_naissance" validate:"required,notfuture"`
	Sexe             string      `json:"sexe" db:"sexe" validate:"required,oneof=Masculin Féminin Autre"`
	Adresse          string      `json:"adresse" db:"adresse" validate:"max=255"`
	Telephone        string      `json:"telephone" db:"telephone" validate:"max=20"`
	Email            string      `json:"email" db:"email" validate:"omitempty,email,max=150"`
	DateImplantation *civil.Date `json:"dateImplantation" db:"date_implantation" validate:"omitempty,notfuture"`
	IDImplant        *int64      `json:"idImplant" db:"id_implant" validate:"omitempty,gt=0"`

	TypeImplant      *string     `json:"typeImplant,omitempty" db:"-"`
	DatePose         *civil.Date `json:"datePose,omitempty" db:"-"`
	NombreElectrodes *int        `json:"nombreElectrodes,omitempty" db:"-"`
	TypeProcesseur   *string     `json:"typeProcesseur,omitempty" db:"-"`
	Batterie         *string     `json:"batterie,omitempty" db:"-"`
}

// UpdateRequest allows every column except the id. dateImplantation and
// idImplant accept null.
type UpdateRequest struct {
	Nom              *string                   `json:"nom" validate:"omitnil,min=1,max=100"`
	Prenom           *string                   `json:"prenom" validate:"omitnil,min=1,max=100"`
	DateNaissance    *civil.Date               `json:"dateNaissance" validate:"omitempty,notfuture"`
	Sexe             *string                   `json:"sexe" validate:"omitempty,oneof=Masculin Féminin Autre"`
	Adresse          *string                   `json:"adresse" validate:"omitempty,max=255"`
	Telephone        *string                   `json:"telephone" validate:"omitempty,max=20"`
	Email            *string                   `json:"email" validate:"omitempty,email,max=150"`
	DateImplantation crud.Optional[civil.Date] `json:"dateImplantation"`
	IDImplant        crud.Optional[int64]      `json:"idImplant"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.Nom != nil {
		ch = ch.Set("nom", *r.Nom)
	}
	if r.Prenom != nil {
		ch = ch.Set("prenom", *r.Prenom)
	}
	if r.DateNaissance != nil && !r.DateNaissance.IsZero() {
		ch = ch.Set("date_naissance", *r.DateNaissance)
	}
	if r.Sexe != nil {
		ch = ch.Set("sexe", *r.Sexe)
	}
	if r.Adresse != nil {
		ch = ch.Set("adresse", *r.Adresse)
	}
	if r.Telephone != nil {
		ch = ch.Set("telephone", *r.Telephone)
	}
	if r.Email != nil {
		ch = ch.Set("email", *r.Email)
	}
	if r.DateImplantation.Set {
		ch = ch.Set("date_implantation", r.DateImplantation.Ptr())
	}
	if r.IDImplant.Set {
		ch = ch.Set("id_implant", r.IDImplant.Ptr())
	}
	return ch
}
