package processeur

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

var labels = crud.Labels{Entity: "Processeur", Param: "processeur", Audit: "PROCESSEUR"}

type Handler struct {
	svc *Service
	res *crud.Resource[Processeur, UpdateRequest]
}

// NewHandler returns the processor routes.
func NewHandler(svc *Service, repo crud.Repository[Processeur], v *validate.Validator, logger zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		res: crud.NewResource[Processeur, UpdateRequest](repo, v, logger, labels),
	}
}

// RegisterRoutes mounts /processeurs and its sub-resources.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.res.Register(api, "/processeurs")
	api.GET("/processeurs/:id/reglages", h.Reglages)
	api.GET("/processeurs/:id/incidents", h.Incidents)
}

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
