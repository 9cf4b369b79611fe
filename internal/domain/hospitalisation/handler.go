package hospitalisation

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type Handler struct {
	stays *crud.Resource[Hospitalisation, UpdateRequest]
	poses *crud.Resource[PoseImplant, PoseUpdateRequest]
}

// NewHandler serves stays and implant placements as two flat resources.
func NewHandler(stays crud.Repository[Hospitalisation], poses crud.Repository[PoseImplant], v *validate.Validator, logger zerolog.Logger) *Handler {
	v.RegisterStructValidation(stayRules, Hospitalisation{})
	v.RegisterStructValidation(updateRules, UpdateRequest{})
	return &Handler{
		stays: crud.NewResource[Hospitalisation, UpdateRequest](stays, v, logger,
			crud.Labels{Entity: "Hospitalisation", Param: "hospitalisation", Audit: "HOSPITALISATION", Feminine: true}),
		poses: crud.NewResource[PoseImplant, PoseUpdateRequest](poses, v, logger,
			crud.Labels{Entity: "Pose d'implant", Param: "pose d'implant", Audit: "POSE_IMPLANT", Feminine: true}),
	}
}

// stayRules rejects a discharge before admission.
func stayRules(sl validator.StructLevel) {
	h := sl.Current().Interface().(Hospitalisation)
	if h.DateFinHospitalisation != nil && h.DateFinHospitalisation.Before(h.DateDebutHospitalisation) {
		sl.ReportError(h.DateFinHospitalisation, "dateFinHospitalisation", "DateFinHospitalisation",
			"gtefield", "dateDebutHospitalisation")
	}
}

func updateRules(sl validator.StructLevel) {
	r := sl.Current().Interface().(UpdateRequest)
	if r.DateDebutHospitalisation != nil && r.DateFinHospitalisation.Valid &&
		r.DateFinHospitalisation.Value.Before(*r.DateDebutHospitalisation) {
		sl.ReportError(r.DateFinHospitalisation, "dateFinHospitalisation", "DateFinHospitalisation",
			"gtefield", "dateDebutHospitalisation")
	}
}

// RegisterRoutes mounts /hospitalisations and /poses-implant.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	h.stays.Register(api, "/hospitalisations")
	h.poses.Register(api, "/poses-implant")
}
