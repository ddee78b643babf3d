package ai

import (
	"fmt"
	"strings"

	"careercompass/internal/types"
)

// chatHistoryWindow bounds how many recent turns are flattened into a
// chat prompt. Older turns are dropped, not summarized.
const chatHistoryWindow = 8

// UserPrompts contains user-level prompt templates with placeholders
// for dynamic content
type UserPrompts struct {
	CareerInsights         string
	MarketAnalysis         string
	CollegeRecommendations string
	ResumeFeedback         string
	Chat                   string
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	CareerInsights: `Generate a comprehensive career analysis for:

**Category**: %s
**Career**: %s

Provide structured markdown that includes:
1) Career Overview (role, responsibilities, daily tasks)
2) Required Skills & Tools (technical + soft skills)
3) Learning Roadmap (beginner → intermediate → advanced)
4) Career Progression Path (roles & salary bands in India)
5) Future Outlook & trends
6) Suggested Resources (courses, books, certifications)
7) Quick Reference Summary (salary ranges in INR, demand in India, remote options)

Keep the output practical, actionable, and formatted in markdown. Focus on the Indian job market context.

**Crucially, provide a JSON object with the following structure for a chart:**
<!-- CHART_DATA
{
    "type": "radar",
    "labels": ["Technical Skills", "Soft Skills", "Domain Knowledge", "Tools", "Leadership", "Communication"],
    "data": [85, 70, 90, 80, 60, 75],
    "label": "Skill Importance Profile (0-100)"
}
-->
Replace the data values (0-100) based on the importance for this role: "%s".`,

	MarketAnalysis: `Search the web (live) and analyze the current job market in India for the role: "%s".

Please include:
- Current job demand and hiring trends in India (last 12 months)
- Typical salary ranges in INR (entry / mid / senior level)
- Top Indian companies hiring and industry sectors
- Major hiring cities in India (Bangalore, Mumbai, Delhi, Hyderabad, Pune, etc.)
- Skills in highest demand for this role in India
- Remote work availability and trends in India
- Short list of sources (urls or site names) used

Return a concise, well-structured markdown analysis with bullet points and a small summary table.
Focus specifically on the Indian job market.

CRITICAL: At the very end of your response, include a hidden JSON block (wrapped in <!-- CHART_DATA and -->) with precisely this structure for salary mapping:
<!-- CHART_DATA
{
    "type": "bar",
    "labels": ["Entry Level", "Mid Level", "Senior Level", "Lead/Architect"],
    "data": [low_val, mid_val, high_val, ultra_val],
    "unit": "LPA (INR)",
    "label": "Avg Salary Range (LPA)"
}
-->
Replace the values with realistic numbers (integers) based on your research.`,

	CollegeRecommendations: `As a college advisor, provide detailed recommendations for pursuing a career in "%s" in India.

Please include:

1) **Recommended Educational Paths**:
   - Degree programs (BTech, BSc, BA, MBA, MSc, etc.)
   - Specializations to focus on
   - Duration and typical eligibility

2) **Top Indian Colleges/Universities** (at least 10-15):
   - IITs, NITs, IIITs, and other premier institutes
   - State universities and private colleges
   - Include admission processes (JEE, GATE, CAT, etc.)
   - Approximate fees and placement records where known

3) **Alternative Education Paths**:
   - Online courses and certifications
   - Bootcamps and vocational training
   - Diploma programs

4) **Entrance Exams**:
   - Required entrance exams for admission
   - Preparation tips and resources

5) **Scholarships & Financial Aid**:
   - Government scholarships available
   - Merit-based and need-based options

6) **Additional Tips**:
   - Best states/cities for education in this field
   - Industry certifications to pursue alongside degree
   - Internship opportunities during education

Format the response in clear markdown with sections, bullet points, and tables where appropriate.
Focus exclusively on Indian institutions and the Indian education system.

**Crucially, provide a JSON object with the following structure for a chart:**
<!-- CHART_DATA
{
    "type": "bar",
    "labels": ["IITs/Premier", "NITs", "Private Top Tier", "State Govt", "Private Mid Tier"],
    "data": [25, 15, 12, 6, 5],
    "unit": "LPA",
    "label": "Avg Placement Package (LPA)"
}
-->
Replace the data values with realistic average placement figures (in LPA) for this field: "%s".`,

	ResumeFeedback: `As an expert resume coach, analyze the following resume for the target role: "%s"

**Resume Content**:
%s

Provide comprehensive feedback in the following structure:

1) **Overall Assessment** (Score: X/10):
   - Brief summary of strengths and weaknesses
   - First impression rating

2) **Content Analysis**:
   - Relevance to target role
   - Key achievements and quantifiable results
   - Skills alignment with job requirements
   - Missing critical information

3) **Format & Structure**:
   - Layout and readability assessment
   - Section organization
   - Length appropriateness

4) **Specific Improvements Needed**:
   - What to add (skills, experiences, keywords)
   - What to remove or reduce
   - How to rephrase key sections
   - ATS (Applicant Tracking System) optimization tips

5) **Section-by-Section Feedback**:
   - Summary/Objective
   - Work Experience
   - Education
   - Skills
   - Projects/Certifications

6) **Action Items** (Priority-ordered):
   - Top 5-7 changes to make immediately
   - Keywords to include for ATS
   - Formatting improvements

7) **Example Improvements**:
   - Before/After examples for 2-3 bullet points
   - Better ways to phrase achievements

8) **Industry-Specific Tips**:
   - Tailored advice for the Indian job market
   - Cultural considerations for Indian recruiters

Be constructive, specific, and actionable. Use markdown formatting with clear sections.`,

	Chat: `You are a helpful AI career advisor with expertise in:
- Career guidance and job market trends (especially in India)
- Indian colleges and universities
- Resume writing and optimization
- Skills development and learning paths

Conversation context:
%s

User question: %s

Provide a helpful, concise answer. If you need live data about Indian colleges, job markets, or current trends, use the web_search tool.
When discussing education, focus on Indian institutions. When discussing salaries, use INR.`,
}

// BuildCareerInsightsPrompt formats the career insights template
func BuildCareerInsightsPrompt(input types.CareerInsightsInput) string {
	return fmt.Sprintf(DefaultUserPrompts.CareerInsights,
		input.Category, input.Subcareer, input.Subcareer)
}

// BuildMarketAnalysisPrompt formats the market analysis template
func BuildMarketAnalysisPrompt(input types.MarketAnalysisInput) string {
	return fmt.Sprintf(DefaultUserPrompts.MarketAnalysis, input.Subcareer)
}

// BuildCollegeRecommendationsPrompt formats the college recommendations template
func BuildCollegeRecommendationsPrompt(input types.CollegeRecommendationsInput) string {
	return fmt.Sprintf(DefaultUserPrompts.CollegeRecommendations,
		input.Subcareer, input.Subcareer)
}

// BuildResumeFeedbackPrompt formats the resume feedback template
func BuildResumeFeedbackPrompt(input types.ResumeFeedbackInput) string {
	return fmt.Sprintf(DefaultUserPrompts.ResumeFeedback,
		input.TargetRole, input.ResumeText)
}

// BuildChatPrompt formats the chat template, flattening the most
// recent history turns into a "role: content" context block.
func BuildChatPrompt(input types.ChatInput) string {
	history := input.History
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}

	return fmt.Sprintf(DefaultUserPrompts.Chat,
		strings.Join(lines, "\n"), input.Message)
}
