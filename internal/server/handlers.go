// internal/server/handlers.go

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "suggestion-engine/internal/common/errors"
	"suggestion-engine/internal/common/metrics"
	"suggestion-engine/internal/orchestrator"
	"suggestion-engine/internal/ratelimit"
	"suggestion-engine/internal/tenant"
)

const defaultMood = "adventurous"

type suggestionParams struct {
	Lat  float64
	Lng  float64
	Mood string
}

// handleSuggestions is the main endpoint: resolve tenant, meter both
// quota operations, then run the aggregation pipeline.
func (s *Server) handleSuggestions(c *gin.Context) {
	start := time.Now()

	identity := s.resolver.Resolve(c.Request.Context(), c.Request)
	if identity == nil {
		s.count(c, "unauthorized")
		renderError(c, apperrors.NewAuthenticationFailedError(tenant.CheckedSources))
		return
	}

	params, err := parseSuggestionParams(c)
	if err != nil {
		s.count(c, "invalid")
		renderError(c, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	// Two independent quotas: the route-level general quota and the
	// ai-generation quota metering the expensive pipeline.
	for _, operation := range []string{ratelimit.OperationGeneral, ratelimit.OperationAIGeneration} {
		if res := s.limiter.Check(c.Request.Context(), identity.TenantID, operation); !res.Allowed {
			s.count(c, "rate_limited")
			renderRateLimited(c, res)
			return
		}
	}

	payload, cached, err := s.orchestrator.Suggest(c.Request.Context(), orchestrator.Request{
		TenantID: identity.TenantID,
		Lat:      params.Lat,
		Lng:      params.Lng,
		Mood:     params.Mood,
	})
	if err != nil {
		s.observe(c, "error", start)
		s.log.WithError(err).Error("suggestion pipeline failed", map[string]interface{}{
			"tenantId":  identity.TenantID,
			"requestId": c.GetString(requestIDKey),
		})
		renderError(c, apperrors.NewUnexpectedFailureError(err))
		return
	}

	s.observe(c, "ok", start)
	c.Header("X-Cache", cacheHeader(cached))
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// count records the request outcome in both metric pipelines.
func (s *Server) count(c *gin.Context, status string) {
	metrics.SuggestionRequests.WithLabelValues(status).Inc()
	s.obs.RecordRequest(c.Request.Context(), status)
}

// observe additionally records the end-to-end duration for requests that
// reached the pipeline.
func (s *Server) observe(c *gin.Context, status string, start time.Time) {
	s.count(c, status)
	metrics.SuggestionRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	s.obs.RecordRequestDuration(c.Request.Context(), time.Since(start), status)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.serviceName})
}

// parseSuggestionParams reads lat/lng/mood from the JSON body on POST and
// from the query string otherwise. Body values win over query values.
func parseSuggestionParams(c *gin.Context) (suggestionParams, error) {
	var params suggestionParams

	var lat, lng *float64
	mood := ""

	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		var body struct {
			Lat  *float64 `json:"lat"`
			Lng  *float64 `json:"lng"`
			Mood string   `json:"mood"`
		}
		// The tenant resolver restores the body after reading it, so a
		// decode failure here means genuinely malformed JSON. An empty
		// body is fine; the query string still applies.
		if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return params, fmt.Errorf("malformed JSON body: %v", err)
		}
		lat, lng, mood = body.Lat, body.Lng, body.Mood
	}

	if lat == nil {
		v, err := queryFloat(c, "lat")
		if err != nil {
			return params, err
		}
		lat = v
	}
	if lng == nil {
		v, err := queryFloat(c, "lng")
		if err != nil {
			return params, err
		}
		lng = v
	}
	if mood == "" {
		mood = c.Query("mood")
	}

	if lat == nil || lng == nil {
		return params, fmt.Errorf("lat and lng are required")
	}
	if *lat < -90 || *lat > 90 {
		return params, fmt.Errorf("lat must be within [-90, 90]")
	}
	if *lng < -180 || *lng > 180 {
		return params, fmt.Errorf("lng must be within [-180, 180]")
	}

	mood = strings.TrimSpace(mood)
	if mood == "" {
		mood = defaultMood
	}

	params.Lat, params.Lng, params.Mood = *lat, *lng, mood
	return params, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// renderError answers with the status the error taxonomy assigns to the code.
func renderError(c *gin.Context, err *apperrors.StandardError) {
	c.JSON(apperrors.HTTPStatus(err.Code), gin.H{"error": err})
}

func renderRateLimited(c *gin.Context, res ratelimit.Result) {
	retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	renderError(c, apperrors.NewQuotaExceededError(res.Operation, res.Limit, res.ResetAt))
}

func cacheHeader(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}
