package hospitalisation

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

type Hospitalisation struct {
	ID                       int64       `json:"id" db:"id"`
	DateDebutHospitalisation civil.Date  `json:"dateDebutHospitalisation" db:"date_debut_hospitalisation" validate:"required"`
	DateFinHospitalisation   *civil.Date `json:"dateFinHospitalisation" db:"date_fin_hospitalisation"`
	MotifHospitalisation     string      `json:"motifHospitalisation" db:"motif_hospitalisation" validate:"required,max=2000"`
	IDPatient                int64       `json:"idPatient" db:"id_patient" validate:"required,gt=0"`
	IDMedecin                int64       `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`
}

type UpdateRequest struct {
	DateDebutHospitalisation *civil.Date               `json:"dateDebutHospitalisation"`
	DateFinHospitalisation   crud.Optional[civil.Date] `json:"dateFinHospitalisation"`
	MotifHospitalisation     *string                   `json:"motifHospitalisation" validate:"omitnil,min=1,max=2000"`
	IDMedecin                *int64                    `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateDebutHospitalisation != nil && !r.DateDebutHospitalisation.IsZero() {
		ch = ch.Set("date_debut_hospitalisation", *r.DateDebutHospitalisation)
	}
	if r.DateFinHospitalisation.Set {
		ch = ch.Set("date_fin_hospitalisation", r.DateFinHospitalisation.Ptr())
	}
	if r.MotifHospitalisation != nil {
		ch = ch.Set("motif_hospitalisation", *r.MotifHospitalisation)
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}

// PoseImplant is the surgery that placed an implant during a stay. The
// doctor's name is read-only.
type PoseImplant struct {
	ID                int64      `json:"id" db:"id"`
	DateOperation     civil.Date `json:"dateOperation" db:"date_operation" validate:"required,notfuture"`
	DureeOperation    string     `json:"dureeOperation" db:"duree_operation" validate:"required,duree"`
	DetailsPose       string     `json:"detailsPose" db:"details_pose" validate:"max=2000"`
	IDHospitalisation int64      `json:"idHospitalisation" db:"id_hospitalisation" validate:"required,gt=0"`
	IDImplant         int64      `json:"idImplant" db:"id_implant" validate:"required,gt=0"`
	IDMedecin         int64      `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`

	MedecinNom    *string `json:"medecinNom,omitempty" db:"-"`
	MedecinPrenom *string `json:"medecinPrenom,omitempty" db:"-"`
}

type PoseUpdateRequest struct {
	DateOperation  *civil.Date `json:"dateOperation" validate:"omitempty,notfuture"`
	DureeOperation *string     `json:"dureeOperation" validate:"omitnil,duree"`
	DetailsPose    *string     `json:"detailsPose" validate:"omitempty,max=2000"`
	IDImplant      *int64      `json:"idImplant" validate:"omitnil,gt=0"`
	IDMedecin      *int64      `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r PoseUpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateOperation != nil && !r.DateOperation.IsZero() {
		ch = ch.Set("date_operation", *r.DateOperation)
	}
	if r.DureeOperation != nil {
		ch = ch.Set("duree_operation", *r.DureeOperation)
	}
	if r.DetailsPose != nil {
		ch = ch.Set("details_pose", *r.DetailsPose)
	}
	if r.IDImplant != nil {
		ch = ch.Set("id_implant", *r.IDImplant)
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}
