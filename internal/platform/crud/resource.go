package crud

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

// Labels names an entity in messages and audit events.
type Labels struct {
	Entity string // "Rendez-vous", used in sentences
	Param  string // "rendez-vous", used in "ID rendez-vous invalide"
	Audit  string // "RENDEZ_VOUS", suffix of CREATE_/UPDATE_/DELETE_ events
	// Feminine switches participles to the feminine form ("créée").
	Feminine bool
}

func (l Labels) participle(p string) string {
	if l.Feminine {
		return p + "e"
	}
	return p
}

// Resource serves list, get, create, update and delete for one entity. T is
// the stored record and create payload; U is the update payload.
type Resource[T any, U Updater] struct {
	repo   Repository[T]
	v      *validate.Validator
	logger zerolog.Logger
	labels Labels
}

// NewResource returns a handler set backed by repo.
func NewResource[T any, U Updater](repo Repository[T], v *validate.Validator, logger zerolog.Logger, labels Labels) *Resource[T, U] {
	return &Resource[T, U]{repo: repo, v: v, logger: logger, labels: labels}
}

// Register mounts the five routes under path.
func (r *Resource[T, U]) Register(g *echo.Group, path string) {
	g.GET(path, r.List)
	g.POST(path, r.Create)
	g.GET(path+"/:id", r.Get)
	g.PUT(path+"/:id", r.Update)
	g.DELETE(path+"/:id", r.Delete)
}

// List handles GET path.
func (r *Resource[T, U]) List(c echo.Context) error {
	items, err := r.repo.FindAll(c.Request().Context())
	if err != nil {
		return envelope.Internal(err, "Erreur serveur lors de la récupération des données")
	}
	return envelope.List(c, items)
}

// Get handles GET path/:id.
func (r *Resource[T, U]) Get(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", r.labels.Param)
	if err != nil {
		return err
	}
	rec, err := r.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		return HTTPError(r.notFound(id, err), "Erreur serveur lors de la récupération des données")
	}
	return envelope.OK(c, rec)
}

// Create validates the body and answers 201 with the stored record.
func (r *Resource[T, U]) Create(c echo.Context) error {
	var rec T
	if err := r.v.Bind(c, &rec); err != nil {
		return HTTPError(err, "")
	}
	ctx := c.Request().Context()
	if err := r.repo.Create(ctx, &rec); err != nil {
		return HTTPError(err, "Erreur serveur lors de la création")
	}
	AuditEvent(r.logger, c, "CREATE_"+r.labels.Audit).Msg(r.labels.Entity + " " + r.labels.participle("créé"))
	return envelope.Created(c, r.labels.Entity+" "+r.labels.participle("créé")+" avec succès", &rec)
}

// Update applies the non-empty fields of U and answers with the updated record.
func (r *Resource[T, U]) Update(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", r.labels.Param)
	if err != nil {
		return err
	}
	var upd U
	if err := r.v.Bind(c, &upd); err != nil {
		return HTTPError(err, "")
	}
	ch := upd.Changes()
	if len(ch) == 0 {
		return envelope.Invalid(validate.NoFields())
	}

	ctx := c.Request().Context()
	ok, err := r.repo.Update(ctx, id, ch)
	if err != nil {
		return HTTPError(err, "Erreur serveur lors de la mise à jour")
	}
	if !ok {
		return HTTPError(&NotFoundError{Entity: r.labels.Entity, ID: id}, "")
	}
	AuditEvent(r.logger, c, "UPDATE_"+r.labels.Audit).Int64("id", id).
		Strs("fields", ch.Columns()).Msg(r.labels.Entity + " " + r.labels.participle("modifié"))

	rec, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return HTTPError(r.notFound(id, err), "Erreur serveur lors de la mise à jour")
	}
	return envelope.Message(c, r.labels.Entity+" "+r.labels.participle("mis")+" à jour avec succès", rec)
}

// Delete handles DELETE path/:id.
func (r *Resource[T, U]) Delete(c echo.Context) error {
	id, err := envelope.ParamID(c, "id", r.labels.Param)
	if err != nil {
		return err
	}
	ok, err := r.repo.Delete(c.Request().Context(), id)
	if err != nil {
		return HTTPError(err, "Erreur serveur lors de la suppression")
	}
	if !ok {
		return HTTPError(&NotFoundError{Entity: r.labels.Entity, ID: id}, "")
	}
	AuditEvent(r.logger, c, "DELETE_"+r.labels.Audit).Int64("id", id).Msg(r.labels.Entity + " " + r.labels.participle("supprimé"))
	return envelope.Message(c, r.labels.Entity+" "+r.labels.participle("supprimé")+" avec succès", nil)
}

func (r *Resource[T, U]) notFound(id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nf
		}
		return &NotFoundError{Entity: r.labels.Entity, ID: id}
	}
	return err
}

// HTTPError maps repository and validation errors to envelope errors. msg is
// the client message used when err is unexpected.
func HTTPError(err error, msg string) error {
	var (
		verrs validate.Errors
		nf    *NotFoundError
		ee    *envelope.Error
		he    *echo.HTTPError
	)
	switch {
	case errors.As(err, &ee):
		return ee
	case errors.As(err, &he):
		return he
	case errors.As(err, &verrs):
		return envelope.Invalid(verrs)
	case errors.As(err, &nf):
		return envelope.NotFound(nf.Error())
	case errors.Is(err, ErrNoChanges):
		return envelope.Invalid(validate.NoFields())
	case errors.Is(err, ErrInvalidReference):
		return &envelope.Error{Status: http.StatusBadRequest, Message: "Référence invalide : enregistrement lié introuvable", Err: err}
	case errors.Is(err, ErrStillReferenced):
		return &envelope.Error{Status: http.StatusConflict, Message: "Suppression impossible : l'enregistrement est encore référencé", Err: err}
	case errors.Is(err, ErrInvalidValue):
		return &envelope.Error{Status: http.StatusBadRequest, Message: "Valeur refusée par la base de données", Err: err}
	case errors.Is(err, ErrNotFound):
		return envelope.NotFound("Enregistrement introuvable")
	}
	if msg == "" {
		msg = "Erreur serveur"
	}
	return envelope.Internal(err, msg)
}

// AuditEvent starts a type=audit log event for a domain write.
func AuditEvent(logger zerolog.Logger, c echo.Context, action string) *zerolog.Event {
	ev := logger.Info().Str("type", "audit").Str("action", action)
	if reqID, ok := c.Get("request_id").(string); ok {
		ev = ev.Str("request_id", reqID)
	}
	if user, ok := c.Get("user_id").(string); ok && user != "" {
		ev = ev.Str("user_id", user)
	}
	return ev.Str("ip", c.RealIP())
}
