package client

import (
	"time"

	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

type Incident struct {
	ID            int64      `json:"id"`
	DateIncident  civil.Date `json:"dateIncident"`
	HeureIncident string     `json:"heureIncident"`
	Gravite       string     `json:"gravite"`
	Description   string     `json:"description"`
	Statut        string     `json:"statut"`
	IDPatient     int64      `json:"idPatient"`
	IDImplant     *int64     `json:"idImplant"`
	IDProcesseur  *int64     `json:"idProcesseur"`
	IDMedecin     *int64     `json:"idMedecin"`
	DateCreation  time.Time  `json:"dateCreation"`
	PatientNom    string     `json:"patientNom,omitempty"`
	PatientPrenom string     `json:"patientPrenom,omitempty"`
	MedecinNom    string     `json:"medecinNom,omitempty"`
	MedecinPrenom string     `json:"medecinPrenom,omitempty"`
	NbSuivis      int        `json:"nbSuivis,omitempty"`
}

// CreateIncident is the payload of CreateIncident. Gravite accepts the
// English client labels (Minor, Moderate, Major, Critical) as well.
type CreateIncident struct {
	DateIncident  civil.Date `json:"dateIncident"`
	HeureIncident string     `json:"heureIncident"`
	Gravite       string     `json:"gravite"`
	Description   string     `json:"description"`
	IDPatient     int64      `json:"idPatient"`
	IDImplant     *int64     `json:"idImplant,omitempty"`
	IDProcesseur  *int64     `json:"idProcesseur,omitempty"`
	IDMedecin     *int64     `json:"idMedecin,omitempty"`
}

// UpdateIncident sends only the non-nil fields.
type UpdateIncident struct {
	Gravite     *string `json:"gravite,omitempty"`
	Description *string `json:"description,omitempty"`
	Statut      *string `json:"statut,omitempty"`
	IDMedecin   *int64  `json:"idMedecin,omitempty"`
}

type Suivi struct {
	ID                int64      `json:"id"`
	DateSuivi         civil.Date `json:"dateSuivi"`
	ActionsPrises     string     `json:"actionsPrises"`
	IDIncident        int64      `json:"idIncident"`
	IDMedecin         int64      `json:"idMedecin"`
	DateCreation      time.Time  `json:"dateCreation"`
	MedecinNom        string     `json:"medecinNom,omitempty"`
	MedecinPrenom     string     `json:"medecinPrenom,omitempty"`
	MedecinSpecialite string     `json:"medecinSpecialite,omitempty"`
}

type CreateSuivi struct {
	DateSuivi     civil.Date `json:"dateSuivi"`
	ActionsPrises string     `json:"actionsPrises"`
	IDMedecin     int64      `json:"idMedecin"`
}

type Patient struct {
	ID               int64       `json:"id"`
	Nom              string      `json:"nom"`
	Prenom           string      `json:"prenom"`
	DateNaissance    civil.Date  `json:"dateNaissance"`
	Sexe             string      `json:"sexe"`
	Adresse          string      `json:"adresse"`
	Telephone        string      `json:"telephone"`
	Email            string      `json:"email"`
	DateImplantation *civil.Date `json:"dateImplantation"`
	IDImplant        *int64      `json:"idImplant"`
	TypeImplant      string      `json:"typeImplant,omitempty"`
}
