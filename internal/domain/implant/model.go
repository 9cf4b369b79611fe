package implant

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// Implant is the stored record and create payload. The owning patient's name
// is read-only.
type Implant struct {
	ID               int64      `json:"id" db:"id"`
	TypeImplant      string     `json:"typeImplant" db:"type_implant" validate:"required,max=100"`
	DatePose         civil.Date `json:"datePose" db:"date_pose" validate:"required,notfuture"`
	NombreElectrodes int        `json:"nombreElectrodes" db:"nombre_electrodes" validate:"required,gt=0,max=64"`
	IDProcesseur     *int64     `json:"idProcesseur" db:"id_processeur" validate:"omitempty,gt=0"`

	PatientNom    *string `json:"patientNom,omitempty" db:"-"`
	PatientPrenom *string `json:"patientPrenom,omitempty" db:"-"`
}

type UpdateRequest struct {
	TypeImplant      *string              `json:"typeImplant" validate:"omitnil,min=1,max=100"`
	DatePose         *civil.Date          `json:"datePose" validate:"omitempty,notfuture"`
	NombreElectrodes *int                 `json:"nombreElectrodes" validate:"omitnil,gt=0,max=64"`
	IDProcesseur     crud.Optional[int64] `json:"idProcesseur"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.TypeImplant != nil {
		ch = ch.Set("type_implant", *r.TypeImplant)
	}
	if r.DatePose != nil && !r.DatePose.IsZero() {
		ch = ch.Set("date_pose", *r.DatePose)
	}
	if r.NombreElectrodes != nil {
		ch = ch.Set("nombre_electrodes", *r.NombreElectrodes)
	}
	if r.IDProcesseur.Set {
		ch = ch.Set("id_processeur", r.IDProcesseur.Ptr())
	}
	return ch
}

// Statistiques summarises an implant's history. Anciennete is in days.
type Statistiques struct {
	Anciennete  int `json:"anciennete"`
	NbReglages  int `json:"nbReglages"`
	NbIncidents int `json:"nbIncidents"`
}
