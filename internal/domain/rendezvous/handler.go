package rendezvous

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type Handler struct {
	res *crud.Resource[RendezVous, UpdateRequest]
}

func NewHandler(repo crud.Repository[RendezVous], v *validate.Validator, logger zerolog.Logger) *Handler {
	return &Handler{
		res: crud.NewResource[RendezVous, UpdateRequest](repo, v, logger,
			crud.Labels{Entity: "Rendez-vous", Param: "rendez-vous", Audit: "RENDEZ_VOUS"}),
	}
}

// RegisterRoutes mounts /rendez-vous.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.res.Register(api, "/rendez-vous")
}
