package evaluation

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type Handler struct {
	phases *crud.Resource[Phase, PhaseUpdateRequest]
	etapes *crud.Resource[Etape, EtapeUpdateRequest]
}

// NewHandler serves evaluation phases and their steps as two flat resources.
func NewHandler(phases crud.Repository[Phase], etapes crud.Repository[Etape], v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(phaseRules, Phase{})
	v.RegisterStructValidation(etapeUpdateRules, EtapeUpdateRequest{})
	return &Handler{
		phases: crud.NewResource[Phase, PhaseUpdateRequest](phases, v, logger,
			crud.Labels{Entity: "Phase d'évaluation", Param: "évaluation", Audit: "PHASE_EVALUATION", Feminine: true}),
		etapes: crud.NewResource[Etape, EtapeUpdateRequest](etapes, v, logger,
			crud.Labels{Entity: "Étape d'évaluation", Param: "étape d'évaluation", Audit: "ETAPE_EVALUATION", Feminine: true}),
	}
}

func phaseRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(Phase)
	if p.DateFinEvaluation != nil && p.DateFinEvaluation.Before(p.DateDebutEvaluation) {
		sl.ReportError(p.DateFinEvaluation, "dateFinEvaluation", "DateFinEvaluation", "gtefield", "dateDebutEvaluation")
	}
}

func etapeUpdateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(EtapeUpdateRequest)
	if r.IDMedecin.Valid && r.IDMedecin.Value <= 0 {
		sl.ReportError(r.IDMedecin, "idMedecin", "IDMedecin", "gt", "0")
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.phases.Register(api, "/evaluations")
	h.etapes.Register(api, "/evaluationsetapes")
}
