package implant

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

var labels = crud.Labels{Entity: "Implant", Param: "implant", Audit: "IMPLANT"}

type Handler struct {
	svc *Service
	res *crud.Resource[Implant, UpdateRequest]
}

// NewHandler returns the implant routes. Aggregates go through svc.
func NewHandler(svc *Service, repo Repository, v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(updateRules, UpdateRequest{})
	return &Handler{
		svc: svc,
		res: crud.NewResource[Implant, UpdateRequest](repo, v, logger, labels),
	}
}

func updateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(UpdateRequest)
	if r.IDProcesseur.Valid && r.IDProcesseur.Value <= 0 {
		sl.ReportError(r.IDProcesseur, "idProcesseur", "IDProcesseur", "gt", "0")
	}
}

// RegisterRoutes mounts /implants and its sub-resources.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.res.Register(api, "/implants")
	api.GET("/implants/:id/reglages", h.Reglages)
	api.GET("/implants/:id/incidents", h.Incidents)
	api.GET("/implants/:id/statistiques", h.Statistiques)
}

// Reglages lists the fittings recorded on the implant.
func (h *Handler) Reglages(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	items, err := h.svc.Reglages(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err, "Erreur serveur lors de la récupération des réglages")
	}
	return envelope.List(c, items)
}

// Incidents lists the incidents raised against the implant.
func (h *Handler) Incidents(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	items, err := h.svc.Incidents(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err, "Erreur serveur lors de la récupération des incidents")
	}
	return envelope.List(c, items)
}

// Statistiques returns the implant's age with its fitting and incident counts.
func (h *Handler) Statistiques(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	stats, err := h.svc.Statistiques(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err, "Erreur serveur lors du calcul des statistiques")
	}
	return envelope.OK(c, stats)
}
