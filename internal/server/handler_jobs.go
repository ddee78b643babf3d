package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"careercompass/internal/observability"
	"careercompass/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// defaultJobLocation is used when a jobs request omits the location.
const defaultJobLocation = "India"

// careersHandler serves the career category catalog. Static data, no
// credentials required.
func (s *Server) careersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Careers.Categories()); err != nil {
		log.Printf("Failed to encode careers response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createJobsHandler wraps the job search handler with observability.
// The aggregator fails soft: per-query search errors are logged and
// the response is whatever listings were collected, possibly none.
func (s *Server) createJobsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careercompass.api")
		ctx, span := tracer.Start(ctx, "api.jobs")
		defer span.End()

		var req JobsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Role) == "" {
			err := fmt.Errorf("missing role")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Role is required", "role field is required", http.StatusBadRequest)
			return
		}

		location := req.Location
		if strings.TrimSpace(location) == "" {
			location = defaultJobLocation
		}

		span.SetAttributes(
			attribute.String("request.role", req.Role),
			attribute.String("request.location", location),
			attribute.String("operation", "job_search"),
		)

		jobs := s.Jobs.SearchJobs(ctx, req.Role, location)
		if jobs == nil {
			jobs = []types.JobListing{}
		}

		s.Logger.Info("Job search completed",
			"role", req.Role,
			"location", location,
			"listings", len(jobs))

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "job_search", true,
			attribute.Int("output.listing_count", len(jobs)))
		metrics.RecordJobListingCount(ctx, len(jobs))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.listing_count", len(jobs)),
		)

		writeJSONResponse(w, span, jobs)
	}
}
