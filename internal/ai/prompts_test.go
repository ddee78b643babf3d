package ai

import (
	"fmt"
	"strings"
	"testing"

	"careercompass/internal/types"
)

func TestBuildCareerInsightsPrompt(t *testing.T) {
	prompt := BuildCareerInsightsPrompt(types.CareerInsightsInput{
		Category:  "Technology & IT",
		Subcareer: "Data Scientist",
	})

	wantFragments := []string{
		"**Category**: Technology & IT",
		"**Career**: Data Scientist",
		"Career Overview",
		"Learning Roadmap",
		"Quick Reference Summary",
		"<!-- CHART_DATA",
		"-->",
		`"type": "radar"`,
		`for this role: "Data Scientist"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("career insights prompt missing %q", fragment)
		}
	}
}

func TestBuildMarketAnalysisPrompt(t *testing.T) {
	prompt := BuildMarketAnalysisPrompt(types.MarketAnalysisInput{Subcareer: "DevOps Engineer"})

	wantFragments := []string{
		`the role: "DevOps Engineer"`,
		"salary ranges in INR",
		"<!-- CHART_DATA",
		`"type": "bar"`,
		`"unit": "LPA (INR)"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("market analysis prompt missing %q", fragment)
		}
	}
}

func TestBuildCollegeRecommendationsPrompt(t *testing.T) {
	prompt := BuildCollegeRecommendationsPrompt(types.CollegeRecommendationsInput{Subcareer: "Machine Learning Engineer"})

	wantFragments := []string{
		`career in "Machine Learning Engineer" in India`,
		"Recommended Educational Paths",
		"Entrance Exams",
		"Scholarships & Financial Aid",
		"<!-- CHART_DATA",
		`for this field: "Machine Learning Engineer"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("college recommendations prompt missing %q", fragment)
		}
	}
}

func TestBuildResumeFeedbackPrompt(t *testing.T) {
	prompt := BuildResumeFeedbackPrompt(types.ResumeFeedbackInput{
		ResumeText: "Jane Doe. Go developer since 2019.",
		TargetRole: "Backend Engineer",
	})

	wantFragments := []string{
		`target role: "Backend Engineer"`,
		"Jane Doe. Go developer since 2019.",
		"Overall Assessment",
		"ATS (Applicant Tracking System) optimization tips",
		"Action Items",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("resume feedback prompt missing %q", fragment)
		}
	}
	if strings.Contains(prompt, "CHART_DATA") {
		t.Error("resume feedback prompt should not request a chart")
	}
}

func TestBuildChatPrompt(t *testing.T) {
	prompt := BuildChatPrompt(types.ChatInput{
		Message: "Which entrance exams matter for AI degrees?",
		History: []types.ChatTurn{
			{Role: types.RoleUser, Content: "I want to work in AI."},
			{Role: types.RoleAssistant, Content: "Great choice, let's plan."},
		},
	})

	wantFragments := []string{
		"user: I want to work in AI.",
		"assistant: Great choice, let's plan.",
		"User question: Which entrance exams matter for AI degrees?",
		"use the web_search tool",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("chat prompt missing %q", fragment)
		}
	}
}

func TestBuildChatPromptLimitsHistory(t *testing.T) {
	var history []types.ChatTurn
	for i := 0; i < 12; i++ {
		history = append(history, types.ChatTurn{
			Role:    types.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	prompt := BuildChatPrompt(types.ChatInput{Message: "latest question", History: history})

	// Only the most recent 8 turns survive
	if strings.Contains(prompt, "message 3") {
		t.Error("expected old turns to be dropped from context")
	}
	if !strings.Contains(prompt, "message 4") || !strings.Contains(prompt, "message 11") {
		t.Error("expected the most recent turns to be kept")
	}
}

func TestBuildChatPromptEmptyHistory(t *testing.T) {
	prompt := BuildChatPrompt(types.ChatInput{Message: "hello"})

	if !strings.Contains(prompt, "User question: hello") {
		t.Error("expected question to appear even without history")
	}
}
