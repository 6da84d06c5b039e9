package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/sensor"

	"golang.org/x/sync/errgroup"
)

const (
	SectionSafety    = "safety"
	SectionFreshness = "freshness"
	SectionRecipes   = "recipes"
)

const (
	safetyInstructions = `You are a Food Safety Expert specialized in monitoring refrigerator conditions.
Analyze temperature readings (ideal fridge temp is 3-5°C), evaluate gas levels for potential
issues and monitor humidity levels (ideal range 40-70%).
Give a clear assessment of current conditions, safety warnings if values are outside ideal
ranges and recommendations to improve conditions if needed.
Always start responses with an emoji indicating safety status: ✅ = Safe, 🟡 = Caution, 🚨 = Danger.
Be concise and factual. Focus only on safety aspects of refrigeration.`

	freshnessInstructions = `You are a Food Freshness Expert specialized in assessing refrigerated foods.
Estimate the likely freshness of the detected items based on common knowledge and point out
which items may need to be consumed soon, with tips to extend freshness when appropriate.
Always start responses with a relevant food emoji and keep suggestions concise.
Focus only on freshness of the detected food items, not safety or recipes.`

	recipeInstructions = `You are a Creative Chef specialized in suggesting recipes based on available ingredients.
Suggest 1-2 specific, practical recipes with names, prioritizing items that may need to be
consumed soon, with a brief description of how to use the ingredients.
Always start responses with a cooking emoji (🍳, 🥗, 🍲, etc.).
Keep suggestions concise and focused only on recipes, not freshness or safety.`

	reviewInstructions = `You are a Food Safety Guardrail that reviews refrigerator analyses.
Rules to enforce: temperature must be 0-5°C (warn if outside this range), gas levels above
300 ppm require immediate attention, never recommend consuming food that might be spoiled and
never provide medical advice.
Reply with a single short sentence addressing the most important issue.`
)

type IFridgeAnalysisService interface {
	Analyze(ctx context.Context, snapshot *sensor.Snapshot, items []string) sensor.Analysis
}

type fridgeAnalysisService struct {
	llmProvider llm.LLMProvider
	timeout     time.Duration
	aiLogger    logger.ILogger
	now         func() time.Time
}

// NewFridgeAnalysisService builds the post-upload analyzer. timeout bounds each prompt.
func NewFridgeAnalysisService(llmProvider llm.LLMProvider, timeout time.Duration, aiLog logger.ILogger) IFridgeAnalysisService {
	return &fridgeAnalysisService{
		llmProvider: llmProvider,
		timeout:     timeout,
		aiLogger:    aiLog,
		now:         time.Now,
	}
}

// Analyze never fails; each section that cannot be produced reads "... unavailable".
func (s *fridgeAnalysisService) Analyze(ctx context.Context, snapshot *sensor.Snapshot, items []string) sensor.Analysis {
	itemsText := "No items detected"
	if len(items) > 0 {
		itemsText = strings.Join(items, ", ")
	}

	prompts := []struct {
		section      string
		instructions string
		prompt       string
		unavailable  string
	}{
		{
			section:      SectionSafety,
			instructions: safetyInstructions,
			prompt:       fmt.Sprintf("Please analyze these refrigerator conditions for safety:\n\n%s\n\nProvide a concise safety assessment with appropriate emoji prefix.", snapshot.Describe()),
			unavailable:  "Safety analysis unavailable",
		},
		{
			section:      SectionFreshness,
			instructions: freshnessInstructions,
			prompt:       fmt.Sprintf("Please analyze these food items detected in a refrigerator:\n\nItems: %s\n\nProvide a concise freshness assessment with appropriate food emoji.", itemsText),
			unavailable:  "Freshness analysis unavailable",
		},
		{
			section:      SectionRecipes,
			instructions: recipeInstructions,
			prompt:       fmt.Sprintf("Please suggest recipes using these food items detected in a refrigerator:\n\nItems: %s\n\nProvide 1-2 concise recipe suggestions with appropriate cooking emoji.", itemsText),
			unavailable:  "Recipe suggestions unavailable",
		},
	}

	results := make([]string, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		g.Go(func() error {
			reply, err := s.ask(gctx, p.section, p.instructions, p.prompt)
			if err != nil {
				results[i] = p.unavailable
				return nil
			}
			results[i] = reply
			return nil
		})
	}
	_ = g.Wait()

	sections := make(map[string]string, len(prompts))
	for i, p := range prompts {
		sections[p.section] = results[i]
	}

	analysis := sensor.Analysis{
		Priority:   Prioritize(sections[SectionSafety], sections[SectionFreshness]),
		Sections:   sections,
		AnalyzedAt: s.now(),
	}

	review, err := s.ask(ctx, "review", reviewInstructions, reviewPrompt(snapshot, itemsText, sections))
	if err != nil {
		review = sections[SectionSafety]
	}
	analysis.AiResponse = review
	return analysis
}

func (s *fridgeAnalysisService) ask(ctx context.Context, section, instructions, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: instructions},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithTemperature(0.4))
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("empty reply")
	}
	if err != nil {
		s.aiLogger.Warn("FridgeAnalysis", "Analysis prompt failed", map[string]interface{}{
			"section": section,
			"error":   err.Error(),
		})
		return "", err
	}

	s.aiLogger.Info("FridgeAnalysis", "Analysis prompt finished", map[string]interface{}{
		"section":  section,
		"prompt":   prompt,
		"response": reply,
	})
	return strings.TrimSpace(reply), nil
}

func reviewPrompt(snapshot *sensor.Snapshot, itemsText string, sections map[string]string) string {
	analysisJSON, _ := json.MarshalIndent(sections, "", "  ")
	return fmt.Sprintf(`Please review these refrigerator conditions and analyses for safety:

SENSOR DATA:
%s
Food Items: %s

ANALYSES:
%s

Return only the single most important alert or recommendation.`, snapshot.Describe(), itemsText, analysisJSON)
}

// Prioritize orders the sections for display. Any safety concern puts safety first;
// otherwise food that should be eaten soon puts freshness first; otherwise recipes lead.
func Prioritize(safety, freshness string) []string {
	safetyText := strings.ToLower(safety)
	for _, marker := range []string{"danger", "warning", "caution", "🚨", "🟡"} {
		if strings.Contains(safetyText, marker) {
			return []string{SectionSafety, SectionFreshness, SectionRecipes}
		}
	}

	freshnessText := strings.ToLower(freshness)
	for _, marker := range []string{"soon", "old", "expire"} {
		if strings.Contains(freshnessText, marker) {
			return []string{SectionFreshness, SectionSafety, SectionRecipes}
		}
	}
	return []string{SectionRecipes, SectionFreshness, SectionSafety}
}
