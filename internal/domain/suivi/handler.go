package suivi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

var labels = crud.Labels{
	Entity: "Suivi post-implantation",
	Param:  "de suivi post-implantation",
	Audit:  "SUIVI_POST_IMPLANTATION",
}

type Handler struct {
	suivis crud.Repository[Suivi]
	etapes crud.ScopedRepository[Etape]
	res    *crud.Resource[Suivi, UpdateRequest]
	v      *validate.Validator
	logger zerolog.Logger
}

// NewHandler returns the post-implantation follow-up routes.
func NewHandler(suivis crud.Repository[Suivi], etapes crud.ScopedRepository[Etape], v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(suiviRules, Suivi{})
	return &Handler{
		suivis: suivis,
		etapes: etapes,
		res:    crud.NewResource[Suivi, UpdateRequest](suivis, v, logger, labels),
		v:      v,
		logger: logger,
	}
}

func suiviRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(Suivi)
	if s.DateFinSuivi != nil && s.DateFinSuivi.Before(s.DateDebutSuivi) {
		sl.ReportError(s.DateFinSuivi, "dateFinSuivi", "DateFinSuivi", "gtefield", "dateDebutSuivi")
	}
}

// RegisterRoutes mounts /suivis and the nested /suivis/:id/etapes routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.res.Register(api, "/suivis")
	api.GET("/suivis/:id/etapes", h.ListEtapes)
	api.POST("/suivis/:id/etapes", h.CreateEtape)
	api.DELETE("/suivis/:id/etapes/:idEtape", h.DeleteEtape)
}

// suiviID reads the parent id and checks that the follow-up exists.
func (h *Handler) suiviID(c echo.Context) (int64, error) {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return 0, err
	}
	_, err = h.suivis.FindByID(c.Request().Context(), id)
	if errors.Is(err, crud.ErrNotFound) {
		return 0, envelope.NotFound((&crud.NotFoundError{Entity: labels.Entity, ID: id}).Error())
	}
	if err != nil {
		return 0, envelope.Internal(err, "Erreur lors de la récupération du suivi")
	}
	return id, nil
}

func (h *Handler) ListEtapes(c echo.Context) error {
	id, err := h.suiviID(c)
	if err != nil {
		return err
	}
	items, err := h.etapes.FindWhere(c.Request().Context(), "id_suivi_post", id)
	if err != nil {
		return envelope.Internal(err, "Erreur lors de la récupération des étapes de suivi")
	}
	return envelope.List(c, items)
}

// CreateEtape answers 404 when the follow-up does not exist.
func (h *Handler) CreateEtape(c echo.Context) error {
	id, err := h.suiviID(c)
	if err != nil {
		return err
	}

	var req CreateEtapeRequest
	if err := validate.Decode(c.Request().Body, &req); err != nil {
		return crud.HTTPError(err, "")
	}
	if err := h.v.Struct(&req); err != nil {
		var errs validate.Errors
		if errors.As(err, &errs) && (req.DateEtape.IsZero() || req.TypeEtape == "") {
			return &envelope.Error{Status: http.StatusBadRequest, Message: "dateEtape et typeEtape sont obligatoires", Errors: errs}
		}
		return crud.HTTPError(err, "")
	}

	etape := req.toEtape(id)
	if err := h.etapes.Create(c.Request().Context(), etape); err != nil {
		return crud.HTTPError(err, "Erreur lors de la création de l'étape de suivi")
	}
	crud.AuditEvent(h.logger, c, "CREATE_ETAPE_SUIVI").
		Int64("etape_id", etape.ID).Int64("suivi_id", id).Msg("Étape de suivi créée")
	return envelope.Created(c, "Étape de suivi créée avec succès", etape)
}

// DeleteEtape only removes a step of the follow-up named in the path.
func (h *Handler) DeleteEtape(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", labels.Param)
	if err != nil {
		return err
	}
	etapeID, err := envelope.ParamID(c, "idEtape", "d'étape")
	if err != nil {
		return err
	}

	ok, err := h.etapes.DeleteWhere(c.Request().Context(), etapeID, "id_suivi_post", id)
	if err != nil {
		return envelope.Internal(err, "Erreur lors de la suppression de l'étape de suivi")
	}
	if !ok {
		return envelope.NotFound(fmt.Sprintf("Étape %d introuvable pour le suivi %d", etapeID, id))
	}
	crud.AuditEvent(h.logger, c, "DELETE_ETAPE_SUIVI").
		Int64("etape_id", etapeID).Int64("suivi_id", id).Msg("Étape de suivi supprimée")
	return envelope.Message(c, "Étape de suivi supprimée avec succès", nil)
}
