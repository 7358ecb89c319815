package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/models"
	"github.com/StartupBuilder-io/startupbuilder/internal/store"
	"go.uber.org/zap"
)

const minIdeaLen = 10

var (
	// ErrIdeaTooShort rejects ideas under the minimum length.
	ErrIdeaTooShort = errors.New("idea too short")

	// ErrBadModelOutput means the model reply was not the expected JSON.
	ErrBadModelOutput = errors.New("could not parse model output")
)

// Service generates and stores business plans.
type Service struct {
	store     *store.Store
	generator ai.Generator
	log       *zap.Logger
}

// NewService wires the plan store and the model boundary.
func NewService(st *store.Store, generator ai.Generator, log *zap.Logger) *Service {
	return &Service{store: st, generator: generator, log: log}
}

// Generate runs the one-shot plan prompt and persists the result as an
// immutable snapshot owned by userID.
func (s *Service) Generate(ctx context.Context, userID, idea string) (*models.BusinessPlan, error) {
	idea = strings.TrimSpace(idea)
	if len([]rune(idea)) < minIdeaLen {
		return nil, ErrIdeaTooShort
	}

	raw, err := s.generator.Generate(ctx, planPrompt(idea))
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	result, err := parseResult(raw)
	if err != nil {
		s.log.Warn("unparseable plan output", zap.Error(err))
		return nil, err
	}

	return s.store.CreatePlan(ctx, userID, idea, *result)
}

func planPrompt(idea string) string {
	return fmt.Sprintf(`Atue como um Especialista em Novos Negócios e Arquiteto de Software.
Analise a seguinte ideia de startup e gere um plano de negócios objetivo:

Ideia: "%s"

Retorne APENAS um objeto JSON válido (sem marcação Markdown ou bloco de código) com a seguinte estrutura estrita:
{
  "companyName": "Nome sugerido criativo",
  "slogan": "Slogan de uma frase",
  "targetAudience": {"description": "...", "demographics": "...", "painPoints": ["..."]},
  "marketingStrategy": {"approach": "...", "channels": ["..."], "tactics": ["..."]},
  "financialPlan": {"initialInvestment": "...", "monthlyRevenue": "...", "breakEven": "...", "revenueStreams": ["..."], "mainCosts": ["..."]},
  "competitiveDifferential": {"main": "...", "points": ["..."]},
  "swot": {"strengths": ["..."], "weaknesses": ["..."], "opportunities": ["..."], "threats": ["..."]},
  "investorScore": {"overallScore": 0.0, "evaluation": "...", "recommendation": "...", "marketPotential": 0.0, "feasibility": 0.0, "scalability": 0.0, "risk": 0.0},
  "nextSteps": ["..."]
}`, idea)
}

// parseResult tolerates Markdown code fences around the JSON document.
func parseResult(raw string) (*models.PlanResult, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var result models.PlanResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	return &result, nil
}
