package incident

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
	"github.com/Maramoubouare/FOLLOWUP/pkg/pagination"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc    *Service
	v      *validate.Validator
	logger zerolog.Logger
}

// NewHandler serves incidents and their follow-ups through svc.
func NewHandler(svc *Service, v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(updateRules, UpdateRequest{})
	return &Handler{svc: svc, v: v, logger: logger}
}

func updateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(UpdateRequest)
	if r.IDMedecin.Valid && r.IDMedecin.Value <= 0 {
		sl.ReportError(r.IDMedecin, "idMedecin", "IDMedecin", "gt", "0")
	}
}

// RegisterRoutes mounts the incident routes and /patients/:id/incidents.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/incidents", h.List)
	api.POST("/incidents", h.Create)
	api.GET("/incidents/export", h.Export)
	api.GET("/incidents/:id", h.Get)
	api.PUT("/incidents/:id", h.Update)
	api.DELETE("/incidents/:id", h.Delete)

	api.GET("/incidents/:id/suivis", h.ListSuivis)
	api.POST("/incidents/:id/suivis", h.AddSuivi)
	api.DELETE("/incidents/:id/suivis/:idSuivi", h.DeleteSuivi)

	api.GET("/patients/:id/incidents", h.ListByPatient)
}

// mapError adds the incident-specific rejections to crud.HTTPError.
func mapError(err error, msg string) error {
	if errors.Is(err, ErrImplantNotOwned) {
		return envelope.BadRequest(ErrImplantNotOwned.Error())
	}
	return crud.HTTPError(err, msg)
}

// Create validates the body and answers 201 with the stored incident.
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := validate.Decode(c.Request().Body, &req); err != nil {
		return mapError(err, "")
	}
	req.normalize()
	if err := h.v.Struct(&req); err != nil {
		return mapError(err, "")
	}

	inc, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la création de l'incident")
	}
	crud.AuditEvent(h.logger, c, "CREATE_INCIDENT").
		Int64("incident_id", inc.ID).
		Int64("patient_id", inc.IDPatient).
		Str("gravite", inc.Gravite).
		Msg("incident créé")
	return envelope.Created(c, "Incident créé avec succès", inc)
}

// List pages through incidents newest first, see pagination.FromContext.
func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la récupération des incidents")
	}
	return envelope.Page(c, items, total)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	inc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la récupération de l'incident")
	}
	return envelope.OK(c, inc)
}

// ListByPatient answers 404 when the patient does not exist.
func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "patient")
	if err != nil {
		return err
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la récupération des incidents")
	}
	return envelope.List(c, items)
}

// Update applies the non-empty fields and answers with the joined incident.
func (h *Handler) Update(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := validate.Decode(c.Request().Body, &req); err != nil {
		return mapError(err, "")
	}
	req.normalize()
	if err := h.v.Struct(&req); err != nil {
		return mapError(err, "")
	}

	inc, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la mise à jour de l'incident")
	}
	crud.AuditEvent(h.logger, c, "UPDATE_INCIDENT").
		Int64("incident_id", id).
		Strs("fields", req.Changes().Columns()).
		Msg("incident modifié")
	return envelope.Message(c, "Incident mis à jour avec succès", inc)
}

// Delete removes the incident together with its follow-ups.
func (h *Handler) Delete(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err, "Erreur serveur lors de la suppression de l'incident")
	}
	crud.AuditEvent(h.logger, c, "DELETE_INCIDENT").Int64("incident_id", id).Msg("incident supprimé")
	return envelope.Message(c, "Incident supprimé avec succès", nil)
}

// AddSuivi records a follow-up on an existing incident.
func (h *Handler) AddSuivi(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	var req CreateSuiviRequest
	if err := h.v.Bind(c, &req); err != nil {
		return mapError(err, "")
	}

	su, err := h.svc.AddSuivi(c.Request().Context(), id, req)
	if err != nil {
		return mapError(err, "Erreur serveur lors de l'ajout du suivi")
	}
	crud.AuditEvent(h.logger, c, "CREATE_SUIVI_INCIDENT").
		Int64("suivi_id", su.ID).
		Int64("incident_id", id).
		Int64("medecin_id", su.IDMedecin).
		Msg("suivi ajouté")
	return envelope.Created(c, "Suivi ajouté avec succès", su)
}

func (h *Handler) ListSuivis(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	items, err := h.svc.Suivis(c.Request().Context(), id)
	if err != nil {
		return mapError(err, "Erreur serveur lors de la récupération des suivis")
	}
	return envelope.List(c, items)
}

// DeleteSuivi answers 404 unless the follow-up belongs to the incident.
func (h *Handler) DeleteSuivi(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", "incident")
	if err != nil {
		return err
	}
	suiviID, err := envelope.ParamID(c, "idSuivi", "de suivi")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSuivi(c.Request().Context(), id, suiviID); err != nil {
		return mapError(err, "Erreur serveur lors de la suppression du suivi")
	}
	crud.AuditEvent(h.logger, c, "DELETE_SUIVI_INCIDENT").
		Int64("suivi_id", suiviID).
		Int64("incident_id", id).
		Msg("suivi supprimé")
	return envelope.Message(c, "Suivi supprimé avec succès", nil)
}

// Export sends the whole incident registry as an xlsx workbook.
func (h *Handler) Export(c echo.Context) error {
	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return mapError(err, "Erreur serveur lors de l'export des incidents")
	}
	var buf bytes.Buffer
	if err := WriteRegistry(&buf, items); err != nil {
		return envelope.Internal(err, "Erreur serveur lors de l'export des incidents")
	}
	crud.AuditEvent(h.logger, c, "EXPORT_INCIDENTS").Int("count", len(items)).Msg("registre exporté")

	name := fmt.Sprintf("incidents-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
