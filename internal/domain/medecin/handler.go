package medecin

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

var labels = crud.Labels{Entity: "Médecin", Param: "médecin", Audit: "MEDECIN"}

type Handler struct {
	svc *Service
	res *crud.Resource[Medecin, UpdateRequest]
}

// NewHandler returns the doctor routes; plain CRUD goes through repo.
func NewHandler(svc *Service, repo Repository, v *validate.Validator, logger zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		res: crud.NewResource[Medecin, UpdateRequest](repo, v, logger, labels),
	}
}

// RegisterRoutes mounts /medecins and its per-doctor views.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medecins", h.List)
	api.POST("/medecins", h.res.Create)
	api.GET("/medecins/:id", h.res.Get)
	api.PUT("/medecins/:id", h.res.Update)
	api.DELETE("/medecins/:id", h.res.Delete)

	api.GET("/medecins/:id/patients", h.Patients)
	api.GET("/medecins/:id/agenda", h.Agenda)
	api.GET("/medecins/:id/statistiques", h.Statistiques)
}

// List accepts an optional ?specialite= filter.
func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("specialite")))
	if err != nil {
		return envelope.Internal(err, "Erreur serveur lors de la récupération des médecins")
	}
	return envelope.List(c, items)
}

// Patients lists the patients the doctor follows.
func (h *Handler) Patients(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	items, err := h.svc.Patients(c.Request().Context(), id)
	if err != nil {
		return crud.HTTPError(err, "Erreur serveur lors de la récupération des patients")
	}
	return envelope.List(c, items)
}

// Agenda reads ?debut= and ?fin= as AAAA-MM-JJ dates.
func (h *Handler) Agenda(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	var errs validate.Errors
	debut, ok := queryDate(c, "debut")
	if !ok {
		errs = append(errs, validate.FieldError{Field: "debut", Message: "Le champ debut doit être une date au format AAAA-MM-JJ"})
	}
	fin, ok := queryDate(c, "fin")
	if !ok {
		errs = append(errs, validate.FieldError{Field: "fin", Message: "Le champ fin doit être une date au format AAAA-MM-JJ"})
	}
	if len(errs) > 0 {
		return envelope.Invalid(errs)
	}

	items, err := h.svc.Agenda(c.Request().Context(), id, debut, fin)
	if errors.Is(err, ErrAgendaRange) {
		return envelope.Invalid(validate.Errors{{Field: "fin", Message: err.Error()}})
	}
	if err != nil {
		return crud.HTTPError(err, "Erreur serveur lors de la récupération de l'agenda")
	}
	return envelope.List(c, items)
}

// Statistiques counts the doctor's patients, incidents and fittings.
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

// queryDate returns the zero date for an absent parameter and false for an
// unparsable one.
func queryDate(c echo.Context, name string) (civil.Date, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return civil.Date{}, true
	}
	d, err := civil.ParseDate(raw)
	return d, err == nil
}
