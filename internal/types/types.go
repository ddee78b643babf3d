package types

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in a conversation. Only the most recent
// turns are flattened into new prompts.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CareerSelection pairs a category with one of its subcareers. The
// pairing is validated by the selection UI against the catalog, not
// here.
type CareerSelection struct {
	Category  string `json:"category"`
	Subcareer string `json:"subcareer"`
}

// CareerInsightsInput carries the parameters for a career insights
// prompt.
type CareerInsightsInput struct {
	Category  string
	Subcareer string
}

// MarketAnalysisInput carries the parameters for a market analysis
// prompt.
type MarketAnalysisInput struct {
	Subcareer string
}

// CollegeRecommendationsInput carries the parameters for a college
// recommendations prompt.
type CollegeRecommendationsInput struct {
	Subcareer string
}

// ResumeFeedbackInput carries the resume text and the role it targets.
type ResumeFeedbackInput struct {
	ResumeText string
	TargetRole string
}

// ChatInput carries a new message plus the recent conversation turns
// used as context.
type ChatInput struct {
	Message string
	History []ChatTurn
}

// ModelResponse wraps raw model output. Text holds the visible
// completion; Content is set when the client binding hands back a
// message object rather than a plain string. Exactly one accessor
// (Raw) resolves which applies.
type ModelResponse struct {
	Text    string
	Content string
}

// Raw returns the underlying text of the response, preferring the
// message content field when present.
func (m ModelResponse) Raw() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Text
}

// MarkdownResult is the normalized output of an AI-backed operation,
// with any chart directive already parsed out.
type MarkdownResult struct {
	Result string     `json:"result"`
	Chart  *ChartData `json:"chart,omitempty"`
}

// ChartData is the machine-readable chart payload the model is
// instructed to embed. Presence and shape are a prompt-level contract
// only; consumers must tolerate its absence.
type ChartData struct {
	Type   string    `json:"type"`
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Unit   string    `json:"unit,omitempty"`
	Label  string    `json:"label,omitempty"`
}

// JobListing is one normalized job search result. Description is
// always truncated to 250 characters plus an ellipsis.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Key returns the deduplication identity of a listing. Exact string
// pair, first seen wins.
func (j JobListing) Key() string {
	return j.Title + "-" + j.Company
}
