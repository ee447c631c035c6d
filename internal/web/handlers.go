package web

import (
	"net/http"
	"strconv"

	"amenitymap/internal/apperr"
	"amenitymap/internal/form"
	"amenitymap/internal/history"
	"amenitymap/internal/mapview"
	"amenitymap/internal/models"

	"github.com/gin-gonic/gin"
)

// formValues is what the page echoes back into the inputs.
type formValues struct {
	Name      string
	Latitude  string
	Longitude string
	Type      string
}

type pageData struct {
	Form          formValues
	Errors        form.Errors
	SelectorError string
	Amenity       string
	Amenities     []amenityOption
	State         mapview.State
	CenterLabel   string
}

func valuesFromQuery(q *models.LocationQuery, fallbackType string) formValues {
	if q == nil {
		return formValues{Type: fallbackType}
	}
	return formValues{
		Name:      q.Name,
		Latitude:  strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		Longitude: strconv.FormatFloat(q.Longitude, 'f', -1, 64),
		Type:      string(q.Type),
	}
}

func valuesFromForm(f form.LocationForm) formValues {
	return formValues{
		Name:      f.Name.String(),
		Latitude:  f.Latitude.String(),
		Longitude: f.Longitude.String(),
		Type:      f.Type.String(),
	}
}

func (s *Server) renderPage(c *gin.Context, status int, values *formValues, errs form.Errors, selectorErr string) {
	snap := currentSession(c).Snapshot()
	data := pageData{
		Errors:        errs,
		SelectorError: selectorErr,
		Amenity:       string(snap.Amenity),
		Amenities:     amenityOptions(),
		State:         snap.State,
		CenterLabel:   snap.CenterLabel,
	}
	if values != nil {
		data.Form = *values
	} else {
		data.Form = valuesFromQuery(snap.Query, string(snap.Amenity))
	}
	c.HTML(status, "index.html", data)
}

// Index handles GET /
func (s *Server) Index(c *gin.Context) {
	s.renderPage(c, http.StatusOK, nil, nil, "")
}

// Submit handles POST / from the HTML form.
func (s *Server) Submit(c *gin.Context) {
	var f form.LocationForm
	if err := c.ShouldBind(&f); err != nil {
		s.renderPage(c, http.StatusBadRequest, nil, form.Errors{"form": "The form could not be read"}, "")
		return
	}

	q, err := s.validator.ParseLocation(f)
	if err != nil {
		values := valuesFromForm(f)
		s.renderPage(c, http.StatusBadRequest, &values, form.FieldErrors(err), "")
		return
	}

	currentSession(c).Submit(c.Request.Context(), q)
	c.Redirect(http.StatusSeeOther, "/")
}

// SelectAmenity handles POST /amenity from the selector form.
func (s *Server) SelectAmenity(c *gin.Context) {
	var f form.AmenityForm
	if err := c.ShouldBind(&f); err != nil {
		s.renderPage(c, http.StatusBadRequest, nil, nil, "The selection could not be read")
		return
	}

	t, err := s.validator.ParseAmenity(f)
	if err != nil {
		s.renderPage(c, http.StatusBadRequest, nil, nil, form.FieldErrors(err)["type"])
		return
	}

	currentSession(c).SelectAmenity(c.Request.Context(), t)
	c.Redirect(http.StatusSeeOther, "/")
}

// Map handles GET /api/map
func (s *Server) Map(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Snapshot())
}

// Query handles POST /api/query
func (s *Server) Query(c *gin.Context) {
	var f form.LocationForm
	if err := c.ShouldBindJSON(&f); err != nil {
		s.HandleError(c, apperr.Wrap(apperr.KindBadRequest, "invalid request body", err))
		return
	}

	q, err := s.validator.ParseLocation(f)
	if s.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, currentSession(c).Submit(c.Request.Context(), q))
}

// PutAmenity handles PUT /api/amenity
func (s *Server) PutAmenity(c *gin.Context) {
	var f form.AmenityForm
	if err := c.ShouldBindJSON(&f); err != nil {
		s.HandleError(c, apperr.Wrap(apperr.KindBadRequest, "invalid request body", err))
		return
	}

	t, err := s.validator.ParseAmenity(f)
	if s.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusOK, currentSession(c).SelectAmenity(c.Request.Context(), t))
}

// History handles GET /api/history
func (s *Server) History(c *gin.Context) {
	if s.history == nil {
		s.HandleError(c, apperr.Unavailable("history is not configured"))
		return
	}

	limit := history.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.HandleError(c, apperr.Validation("limit must be a number"))
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		s.HandleError(c, apperr.Wrap(apperr.KindInternal, "failed to load history", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Health handles GET /healthz
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.Len()})
}
