package search

import (
	"context"
	"fmt"
	"unicode/utf8"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

const (
	// earlyStopCount stops issuing further query variants once this
	// many listings have accumulated. The check runs before each
	// variant, so a variant that overshoots is not trimmed back here.
	earlyStopCount = 10

	// maxListings caps the final result set.
	maxListings = 15

	// descriptionLimit is the truncation length before the ellipsis.
	descriptionLimit = 250
)

// jobsAPI is the slice of Client the aggregator depends on.
type jobsAPI interface {
	JobsSearch(ctx context.Context, query string) (*JobsResponse, error)
	HasAPIKey() bool
}

// JobAggregator fans a role/location pair into several phrased
// queries and merges the results into a bounded, deduplicated list.
type JobAggregator struct {
	api    jobsAPI
	logger *errors.Logger
}

// NewJobAggregator creates an aggregator over the given client.
func NewJobAggregator(api jobsAPI, logger *errors.Logger) *JobAggregator {
	return &JobAggregator{api: api, logger: logger}
}

// queryVariants returns the phrasings tried for a role, in fixed
// order. The order matters: it decides which listings surface when
// the API has more matches than the cap.
func queryVariants(role, location string) []string {
	return []string{
		fmt.Sprintf("%s jobs in %s", role, location),
		fmt.Sprintf("%s openings %s", role, location),
		fmt.Sprintf("%s internships %s", role, location),
	}
}

// SearchJobs issues the query variants sequentially, deduplicates on
// the exact (title, company) pair with first-seen-wins ordering, and
// returns at most 15 listings. Per-variant failures are logged and
// skipped; a missing credential yields an empty slice, never an
// error.
func (a *JobAggregator) SearchJobs(ctx context.Context, role, location string) []types.JobListing {
	if location == "" {
		location = "India"
	}
	if !a.api.HasAPIKey() {
		if a.logger != nil {
			a.logger.Warn("Job search skipped: search API key is missing", "role", role)
		}
		return []types.JobListing{}
	}

	var all []types.JobListing
	seen := make(map[string]bool)

	for _, query := range queryVariants(role, location) {
		if len(all) >= earlyStopCount {
			break
		}

		if a.logger != nil {
			a.logger.Info("Issuing job search query", "query", query)
		}

		resp, err := a.api.JobsSearch(ctx, query)
		if err != nil {
			if a.logger != nil {
				a.logger.LogError(err, "Job search query failed, continuing with next variant",
					"query", query)
			}
			continue
		}

		if len(resp.JobsResults) == 0 {
			if a.logger != nil {
				a.logger.Warn("No results for job search query", "query", query)
			}
			continue
		}

		for _, raw := range resp.JobsResults {
			listing := normalizeJob(raw)
			if seen[listing.Key()] {
				continue
			}
			seen[listing.Key()] = true
			all = append(all, listing)
		}
	}

	if all == nil {
		return []types.JobListing{}
	}
	if len(all) > maxListings {
		all = all[:maxListings]
	}
	return all
}

// normalizeJob maps a raw API record into a JobListing with the
// defaults and truncation the contract requires.
func normalizeJob(raw RawJob) types.JobListing {
	listing := types.JobListing{
		Title:     raw.Title,
		Company:   raw.CompanyName,
		Location:  raw.Location,
		Link:      "#",
		Thumbnail: raw.Thumbnail,
	}
	if listing.Title == "" {
		listing.Title = "Unknown Role"
	}
	if listing.Company == "" {
		listing.Company = "Unknown Company"
	}
	if listing.Location == "" {
		listing.Location = "India"
	}
	if len(raw.ApplyOptions) > 0 && raw.ApplyOptions[0].Link != "" {
		listing.Link = raw.ApplyOptions[0].Link
	}

	listing.Description = truncateDescription(raw.Description)
	return listing
}

// truncateDescription cuts to the limit and always appends an
// ellipsis. The limit counts characters, not bytes, so a multibyte
// rune is never split.
func truncateDescription(desc string) string {
	if utf8.RuneCountInString(desc) > descriptionLimit {
		runes := []rune(desc)
		desc = string(runes[:descriptionLimit])
	}
	return desc + "..."
}
