package patient

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

var labels = crud.Labels{Entity: "Patient", Param: "patient", Audit: "PATIENT"}

type Handler struct {
	repo Repository
	res  *crud.Resource[Patient, UpdateRequest]
}

// NewHandler returns the patient routes backed by repo.
func NewHandler(repo Repository, v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(updateRules, UpdateRequest{})
	return &Handler{
		repo: repo,
		res:  crud.NewResource[Patient, UpdateRequest](repo, v, logger, labels),
	}
}

func updateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(UpdateRequest)
	if r.DateImplantation.Valid && r.DateImplantation.Value.After(civil.Today()) {
		sl.ReportError(r.DateImplantation, "dateImplantation", "DateImplantation", "notfuture", "")
	}
	if r.IDImplant.Valid && r.IDImplant.Value <= 0 {
		sl.ReportError(r.IDImplant, "idImplant", "IDImplant", "gt", "0")
	}
}

// RegisterRoutes mounts /patients.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.POST("/patients", h.res.Create)
	api.GET("/patients/:id", h.res.Get)
	api.PUT("/patients/:id", h.res.Update)
	api.DELETE("/patients/:id", h.res.Delete)
}

// List returns every patient, or those matching ?q= on name or email.
func (h *Handler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return h.res.List(c)
	}
	items, err := h.repo.Search(c.Request().Context(), q)
	if err != nil {
		return envelope.Internal(err, "Erreur serveur lors de la recherche des patients")
	}
	return envelope.List(c, items)
}
