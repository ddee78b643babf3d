package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"careercompass/internal/errors"
)

// fakeJobsAPI replays canned responses per query and records the
// order in which queries were issued.
type fakeJobsAPI struct {
	hasKey    bool
	responses map[string]*JobsResponse
	errs      map[string]error
	queries   []string
}

func (f *fakeJobsAPI) JobsSearch(_ context.Context, query string) (*JobsResponse, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if resp, ok := f.responses[query]; ok {
		return resp, nil
	}
	return &JobsResponse{}, nil
}

func (f *fakeJobsAPI) HasAPIKey() bool {
	return f.hasKey
}

func makeJobs(prefix string, n int) []RawJob {
	jobs := make([]RawJob, n)
	for i := range jobs {
		jobs[i] = RawJob{
			Title:       fmt.Sprintf("%s Role %d", prefix, i),
			CompanyName: fmt.Sprintf("%s Co %d", prefix, i),
			Location:    "Bangalore",
			Description: "Build things",
			ApplyOptions: []ApplyOption{
				{Link: "https://example.com/apply"},
			},
		}
	}
	return jobs
}

func TestSearchJobsVariantOrderAndEarlyStop(t *testing.T) {
	api := &fakeJobsAPI{
		hasKey: true,
		responses: map[string]*JobsResponse{
			"Data Scientist jobs in India":     {JobsResults: makeJobs("v1", 8)},
			"Data Scientist openings India":    {JobsResults: makeJobs("v2", 5)},
			"Data Scientist internships India": {JobsResults: makeJobs("v3", 5)},
		},
	}
	agg := NewJobAggregator(api, nil)

	listings := agg.SearchJobs(context.Background(), "Data Scientist", "India")

	// 8 < 10 after variant 1, so variant 2 runs; 13 >= 10 before
	// variant 3, so it is skipped.
	if len(api.queries) != 2 {
		t.Fatalf("expected 2 queries issued, got %d: %v", len(api.queries), api.queries)
	}
	if api.queries[0] != "Data Scientist jobs in India" || api.queries[1] != "Data Scientist openings India" {
		t.Errorf("unexpected query order: %v", api.queries)
	}
	if len(listings) != 13 {
		t.Fatalf("expected 13 listings, got %d", len(listings))
	}
	// First-seen order preserved across variants.
	if listings[0].Title != "v1 Role 0" || listings[8].Title != "v2 Role 0" {
		t.Errorf("listings not in first-seen order: first=%q ninth=%q", listings[0].Title, listings[8].Title)
	}
}

func TestSearchJobsCapAtFifteen(t *testing.T) {
	api := &fakeJobsAPI{
		hasKey: true,
		responses: map[string]*JobsResponse{
			"Engineer jobs in India": {JobsResults: makeJobs("v1", 20)},
		},
	}
	agg := NewJobAggregator(api, nil)

	listings := agg.SearchJobs(context.Background(), "Engineer", "India")
	if len(listings) != 15 {
		t.Fatalf("expected cap of 15, got %d", len(listings))
	}
	if len(api.queries) != 1 {
		t.Errorf("expected early stop after variant 1, issued %v", api.queries)
	}
}

func TestSearchJobsDeduplication(t *testing.T) {
	dup := RawJob{Title: "ML Engineer", CompanyName: "Acme", Location: "Pune", Description: "first"}
	dupOther := RawJob{Title: "ML Engineer", CompanyName: "Acme", Location: "Delhi", Description: "second"}

	api := &fakeJobsAPI{
		hasKey: true,
		responses: map[string]*JobsResponse{
			"ML Engineer jobs in India": {JobsResults: []RawJob{dup, dupOther}},
		},
	}
	agg := NewJobAggregator(api, nil)

	listings := agg.SearchJobs(context.Background(), "ML Engineer", "India")
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing after dedup, got %d", len(listings))
	}
	if listings[0].Location != "Pune" {
		t.Errorf("first-seen listing should win, got location %q", listings[0].Location)
	}
}

func TestSearchJobsPerVariantFailureContinues(t *testing.T) {
	api := &fakeJobsAPI{
		hasKey: true,
		errs: map[string]error{
			"QA jobs in India": errors.NewSearchError(errors.ErrCodeSearchAPIFailed, "quota exceeded", nil),
		},
		responses: map[string]*JobsResponse{
			"QA openings India": {JobsResults: makeJobs("v2", 3)},
		},
	}
	logger, _ := errors.New("error")
	agg := NewJobAggregator(api, logger)

	listings := agg.SearchJobs(context.Background(), "QA", "India")
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings from surviving variants, got %d", len(listings))
	}
	if len(api.queries) != 3 {
		t.Errorf("all variants should be attempted, got %v", api.queries)
	}
}

func TestSearchJobsMissingKeyFailsSoft(t *testing.T) {
	agg := NewJobAggregator(&fakeJobsAPI{hasKey: false}, nil)

	listings := agg.SearchJobs(context.Background(), "Analyst", "")
	if listings == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(listings) != 0 {
		t.Fatalf("expected no listings, got %d", len(listings))
	}
}

func TestSearchJobsDefaultLocation(t *testing.T) {
	api := &fakeJobsAPI{hasKey: true}
	agg := NewJobAggregator(api, nil)

	agg.SearchJobs(context.Background(), "Designer", "")
	if len(api.queries) == 0 || !strings.HasSuffix(api.queries[0], "jobs in India") {
		t.Errorf("expected default location India, got %v", api.queries)
	}
}

func TestNormalizeJobDefaultsAndTruncation(t *testing.T) {
	long := strings.Repeat("x", 400)
	listing := normalizeJob(RawJob{Description: long})

	if listing.Title != "Unknown Role" || listing.Company != "Unknown Company" {
		t.Errorf("missing defaults: %+v", listing)
	}
	if listing.Location != "India" {
		t.Errorf("location default = %q", listing.Location)
	}
	if listing.Link != "#" {
		t.Errorf("link default = %q", listing.Link)
	}
	if len(listing.Description) != descriptionLimit+3 {
		t.Errorf("description length = %d, want %d", len(listing.Description), descriptionLimit+3)
	}
	if !strings.HasSuffix(listing.Description, "...") {
		t.Errorf("description missing ellipsis: %q", listing.Description)
	}

	short := normalizeJob(RawJob{Description: "brief"})
	if short.Description != "brief..." {
		t.Errorf("short description = %q", short.Description)
	}
}

func TestTruncateDescriptionMultibyte(t *testing.T) {
	// A rupee sign straddling the limit must not be split mid-rune.
	desc := strings.Repeat("a", descriptionLimit-1) + "₹ salary details " + strings.Repeat("b", 300)
	got := truncateDescription(desc)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated description is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != descriptionLimit+3 {
		t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), descriptionLimit+3)
	}
	if !strings.HasSuffix(got, "₹...") {
		t.Errorf("expected truncation on the rune boundary: %q", got)
	}
}
