package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/observability"
	"github.com/kbukum/recq/plan"
	"github.com/kbukum/recq/resilience"
)

type queryRequest struct {
	Plan     *plan.Plan    `json:"plan" binding:"required"`
	Records  []plan.Record `json:"records"`
	Previous []plan.Record `json:"previous"`
}

type validateResponse struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name"`
	Steps       int    `json:"steps"`
	Fingerprint string `json:"fingerprint"`
}

func (s *Server) health(c *gin.Context) {
	h := observability.CheckHealth(c.Request.Context(), "recq", s.version, s.checkers...)
	status := http.StatusOK
	if h.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, h)
}

func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	res, err := resilience.ExecuteWithResult(s.bulkhead, ctx, func() (*plan.Result, error) {
		return s.exec.Execute(ctx, req.Plan, plan.Input{Records: req.Records, Previous: req.Previous})
	})
	if err != nil {
		_ = c.Error(err)
		RespondWithError(c, err)
		return
	}
	RespondOK(c, res)
}

// validate accepts a plan as JSON or, with a YAML content type, as YAML.
func (s *Server) validate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondWithError(c, bindError(err))
		return
	}
	format := "json"
	if ct := c.ContentType(); strings.Contains(ct, "yaml") {
		format = "yaml"
	}
	p, err := plan.Parse(body, format)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	fp, err := p.Fingerprint()
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.Header("ETag", `"`+fp+`"`)
	RespondOK(c, validateResponse{Valid: true, Name: p.Name, Steps: len(p.Steps), Fingerprint: fp})
}

// bindError keeps body size errors intact so they render as 413.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return err
	}
	return errors.InvalidInput("body", err.Error()).WithCause(err)
}
