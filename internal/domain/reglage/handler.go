package reglage

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type Handler struct {
	res *crud.Resource[Reglage, UpdateRequest]
}

func NewHandler(repo crud.Repository[Reglage], v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(updateRules, UpdateRequest{})
	return &Handler{
		res: crud.NewResource[Reglage, UpdateRequest](repo, v, logger,
			crud.Labels{Entity: "Réglage", Param: "réglage", Audit: "REGLAGE"}),
	}
}

func updateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(UpdateRequest)
	if r.IDImplant.Valid && r.IDImplant.Value <= 0 {
		sl.ReportError(r.IDImplant, "idImplant", "IDImplant", "gt", "0")
	}
	if r.IDProcesseur.Valid && r.IDProcesseur.Value <= 0 {
		sl.ReportError(r.IDProcesseur, "idProcesseur", "IDProcesseur", "gt", "0")
	}
}

// RegisterRoutes mounts /reglages.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.res.Register(api, "/reglages")
}
