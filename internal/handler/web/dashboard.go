package web

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/internal/usecase"
	xhttp "sigmaband/pkg/http"
	"sigmaband/pkg/http/middleware"
	"sigmaband/pkg/logger"

	"github.com/labstack/echo/v4"
)

//go:embed index.html
var indexHTML string

var pageTmpl = template.Must(template.New("dashboard").Parse(indexHTML))

// DashboardHandler serves the dashboard page and its JSON payload.
type DashboardHandler struct {
	log  *logger.Logger
	dash *usecase.Dashboard

	rateBurst  float64
	ratePerSec float64
}

// NewDashboardHandler creates the web handler. rateBurst and ratePerSec
// parameterize the per-client token bucket on the page and API routes.
func NewDashboardHandler(log *logger.Logger, dash *usecase.Dashboard, rateBurst, ratePerSec float64) *DashboardHandler {
	return &DashboardHandler{
		log:        log,
		dash:       dash,
		rateBurst:  rateBurst,
		ratePerSec: ratePerSec,
	}
}

// RegisterRoutes registers the page, API, and health routes.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	rl := middleware.RateLimitByIP(h.rateBurst, h.ratePerSec)
	e.GET("/", h.Index, rl)
	e.GET("/api/dashboard", h.API, rl)
	e.GET("/healthz", h.Health)
}

type pageData struct {
	View      interface{}
	ChartJSON template.JS
}

// Index renders the dashboard page. Malformed or out-of-range `days`
// values are normalized, never rejected; the effective window is shown on
// the page.
func (h *DashboardHandler) Index(c echo.Context) error {
	view, err := h.dash.View(c.Request().Context(), c.QueryParam("days"))
	if err != nil {
		return h.errorPage(c, err)
	}

	chartJSON, err := json.Marshal(view.Chart)
	if err != nil {
		h.log.Error("chart payload marshal failed", logger.Error(err))
		return h.errorPage(c, err)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, pageData{
		View:      view,
		ChartJSON: template.JS(chartJSON),
	}); err != nil {
		h.log.Error("template render failed", logger.Error(err))
		return h.errorPage(c, err)
	}

	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

type dashboardRequest struct {
	Days string `query:"days" validate:"omitempty,max=12"`
}

// API serves the dashboard payload as JSON.
func (h *DashboardHandler) API(c echo.Context) error {
	req := &dashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.dash.View(c.Request().Context(), req.Days)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, view)
}

// Health reports snapshot presence and freshness.
func (h *DashboardHandler) Health(c echo.Context) error {
	status, err := h.dash.Status(c.Request().Context())
	if err != nil {
		if errors.Is(err, domrepo.ErrNoSnapshot) {
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, "snapshot not available yet")
		}
		return xhttp.AppErrorResponse(c, h.mapError(err))
	}
	return xhttp.SuccessResponse(c, status)
}

// mapError translates domain errors into HTTP application errors.
func (h *DashboardHandler) mapError(err error) error {
	switch {
	case errors.Is(err, domrepo.ErrNoSnapshot):
		return xhttp.NotFoundError("no snapshot: the data fetch job has not run yet").WithError(err)
	case errors.Is(err, domrepo.ErrInsufficientData):
		return xhttp.BadRequestError("not enough data to build the dashboard").WithError(err)
	case errors.Is(err, domrepo.ErrSourceUnavailable):
		return xhttp.UnavailableError("price source unavailable, try again later").WithError(err)
	default:
		h.log.Error("dashboard error", logger.Error(err))
		return xhttp.InternalError("something went wrong")
	}
}

// errorPage degrades every failure to a readable page, never a broken chart.
func (h *DashboardHandler) errorPage(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domrepo.ErrNoSnapshot):
		return c.HTML(http.StatusOK, errorHTML(
			"Data file not found",
			"The daily data-fetching job has not run yet. Run the fetch command and reload.",
		))
	case errors.Is(err, domrepo.ErrInsufficientData):
		return c.HTML(http.StatusOK, errorHTML(
			"Not enough data",
			"The snapshot does not hold enough trading days to build a chart.",
		))
	case errors.Is(err, domrepo.ErrSourceUnavailable):
		return c.HTML(http.StatusServiceUnavailable, errorHTML(
			"Data source unavailable",
			"The upstream price source could not be reached. Reload to retry.",
		))
	default:
		h.log.Error("dashboard page error", logger.Error(err))
		return c.HTML(http.StatusInternalServerError, errorHTML(
			"Something went wrong",
			"An unexpected error occurred while building the dashboard.",
		))
	}
}

func errorHTML(title, detail string) string {
	return fmt.Sprintf(`<body style="font-family: Arial, sans-serif; padding: 20px;">
<h1>%s</h1>
<p>%s</p>
</body>`, template.HTMLEscapeString(title), template.HTMLEscapeString(detail))
}
