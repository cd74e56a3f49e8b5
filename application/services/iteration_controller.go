package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danja/semem-go/application/ports"
	"github.com/danja/semem-go/domain/core/entities"
	"github.com/danja/semem-go/domain/core/valueobjects"
	apperrors "github.com/danja/semem-go/pkg/errors"
	"go.uber.org/zap"
)

// IterationControllerConfig tunes processIterations (§4.G).
type IterationControllerConfig struct {
	MaxIterations        int
	CompletenessThreshold float64
	MaxFollowUps         int
}

// DefaultIterationControllerConfig matches §4.G's documented defaults.
func DefaultIterationControllerConfig() IterationControllerConfig {
	return IterationControllerConfig{MaxIterations: 3, CompletenessThreshold: 0.8, MaxFollowUps: 2}
}

// IterationInput is processIterations' {question, initialResponse,
// context} argument.
type IterationInput struct {
	Question        string
	InitialResponse string
	Context         []string
}

// IterationResult is processIterations' {finalAnswer, iterations[],
// metadata} return value (§6).
type IterationResult struct {
	FinalAnswer string
	Iterations  []ports.IterationStep
	ErrorOccurred bool
}

// IterationController runs the completeness-analysis / follow-up /
// research / synthesis refinement loop (§4.G).
type IterationController struct {
	chat     ports.ChatProvider
	research ports.ResearchCollaborator
	graph    ports.GraphStore
	store    ports.IterationStore
	logger   *zap.Logger
}

// NewIterationController wires the controller's collaborators. store may
// be nil when run history does not need to be queryable.
func NewIterationController(chat ports.ChatProvider, research ports.ResearchCollaborator, graph ports.GraphStore, store ports.IterationStore, logger *zap.Logger) *IterationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IterationController{chat: chat, research: research, graph: graph, store: store, logger: logger}
}

// ProcessIterations implements the state machine in §4.G: analyze ->
// (finalize | generateFollowUps -> research -> synthesizeEnhanced -> loop).
// Failure isolation: a failing step is captured, logged, and recorded with
// success=false; the loop continues with the prior answer (§4.G, §7).
func (c *IterationController) ProcessIterations(ctx context.Context, operationID string, input IterationInput, cfg IterationControllerConfig) (*IterationResult, error) {
	if cfg.MaxIterations <= 0 {
		cfg = DefaultIterationControllerConfig()
	}

	record := &ports.IterationRecord{
		OperationID: operationID,
		Status:      ports.IterationStatusRunning,
		StartedAt:   time.Now(),
	}

	currentAnswer := input.InitialResponse
	anyResearchSucceeded := false
	errorOccurred := false

	for i := 0; i < cfg.MaxIterations; i++ {
		step := ports.IterationStep{Index: i, Answer: currentAnswer}

		analysis, err := c.analyze(ctx, input.Question, currentAnswer, cfg.MaxFollowUps)
		if err != nil {
			c.logger.Warn("iteration analyze step failed", zap.Int("iteration", i), zap.Error(err))
			step.Success = false
			errorOccurred = true
			record.Iterations = append(record.Iterations, step)
			continue
		}
		step.CompletenessScore = analysis.Score
		step.Reasoning = analysis.Reasoning
		step.FollowUps = analysis.FollowUps

		if analysis.Score >= cfg.CompletenessThreshold || len(analysis.FollowUps) == 0 {
			step.Success = true
			record.Iterations = append(record.Iterations, step)
			break
		}

		c.persistFollowUps(ctx, input.Question, analysis.FollowUps)

		researchResult, err := c.research.Research(ctx, analysis.FollowUps)
		if err != nil {
			c.logger.Warn("iteration research step failed", zap.Int("iteration", i), zap.Error(err))
			step.Success = false
			errorOccurred = true
			record.Iterations = append(record.Iterations, step)
			continue
		}
		if researchResult.Success {
			anyResearchSucceeded = true
		}
		c.markResearched(ctx, analysis.FollowUps, researchResult)

		enhanced, err := c.synthesizeEnhanced(ctx, currentAnswer, researchResult)
		if err != nil {
			c.logger.Warn("iteration synthesis step failed", zap.Int("iteration", i), zap.Error(err))
			step.Success = false
			errorOccurred = true
			record.Iterations = append(record.Iterations, step)
			continue
		}

		currentAnswer = enhanced
		step.Answer = currentAnswer
		step.Success = true
		record.Iterations = append(record.Iterations, step)
	}

	if anyResearchSucceeded {
		if final, err := c.finalize(ctx, input.Question, currentAnswer); err == nil {
			currentAnswer = final
		} else {
			c.logger.Warn("final synthesis failed, returning last enhanced answer", zap.Error(err))
			errorOccurred = true
		}
	}

	now := time.Now()
	record.CompletedAt = &now
	record.Status = ports.IterationStatusCompleted
	if errorOccurred {
		record.Status = ports.IterationStatusFailed
	}
	if c.store != nil {
		if err := c.store.Store(ctx, record); err != nil {
			c.logger.Warn("iteration record persistence failed", zap.Error(err))
		}
	}

	return &IterationResult{FinalAnswer: currentAnswer, Iterations: record.Iterations, ErrorOccurred: errorOccurred}, nil
}

type completenessAnalysis struct {
	Score     float64
	Reasoning string
	FollowUps []string
}

// analyzePromptTemplate asks the chat provider for a completeness score, a
// reasoning string, and at most maxFollowUps follow-up questions (§4.G).
const analyzePromptTemplate = `Question: %s
Current answer: %s

Evaluate how completely the current answer addresses the question. Respond
with a JSON object of the shape {"completeness": <0..1>, "reasoning":
"<string>", "followUps": ["<question>", ...]}. Include at most %d follow-up
questions that would most improve completeness, or an empty array if none
are needed.`

func (c *IterationController) analyze(ctx context.Context, question, currentAnswer string, maxFollowUps int) (*completenessAnalysis, error) {
	prompt := fmt.Sprintf(analyzePromptTemplate, question, currentAnswer, maxFollowUps)
	response, err := c.chat.GenerateResponse(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	raw := extractJSONObject(response)
	if raw == nil {
		return nil, apperrors.NewProtocol("completeness analysis response was not a parseable JSON object")
	}

	var parsed struct {
		Completeness float64  `json:"completeness"`
		Reasoning    string   `json:"reasoning"`
		FollowUps    []string `json:"followUps"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewProtocol("completeness analysis JSON did not match expected shape: %v", err)
	}

	if len(parsed.FollowUps) > maxFollowUps {
		parsed.FollowUps = parsed.FollowUps[:maxFollowUps]
	}
	return &completenessAnalysis{Score: parsed.Completeness, Reasoning: parsed.Reasoning, FollowUps: parsed.FollowUps}, nil
}

// persistFollowUps mirrors generateFollowUps: each question becomes a
// first-class node linked to the original question (§4.G). Failures are
// logged and non-fatal, matching the navigator's provenance-write policy.
func (c *IterationController) persistFollowUps(ctx context.Context, question string, followUps []string) {
	for _, q := range followUps {
		concept := entities.NewConcept(q).WithDomain("follow-up:" + question)
		if err := c.graph.SaveConcept(ctx, concept); err != nil {
			c.logger.Warn("follow-up question persistence failed", zap.String("question", q), zap.Error(err))
		}
	}
}

// researchYieldPrefixBlock carries just the semem: prefix markResearched's
// raw update needs, independent of the sparql package's own prefixBlock
// (application must not import infrastructure/persistence/sparql).
const researchYieldPrefixBlock = "PREFIX semem: <http://hyperdata.it/semem/>\n"

// markResearched updates each follow-up's persisted concept node with the
// entity/concept counts the research collaborator found for it (§4.G),
// replacing any prior yield recorded for the same question.
func (c *IterationController) markResearched(ctx context.Context, followUps []string, result ports.ResearchResult) {
	for _, q := range followUps {
		uri := valueobjects.ConceptURI(q)
		entitiesFound := result.EntitiesPerQuestion[q]
		conceptsFound := result.ConceptsPerQuestion[q]

		update := fmt.Sprintf(`%[1]sDELETE { <%[2]s> semem:entitiesFound ?e ; semem:conceptsFound ?c }
WHERE { OPTIONAL { <%[2]s> semem:entitiesFound ?e } OPTIONAL { <%[2]s> semem:conceptsFound ?c } };
%[1]sINSERT DATA { <%[2]s> semem:entitiesFound %[3]d ; semem:conceptsFound %[4]d . }`,
			researchYieldPrefixBlock, uri, entitiesFound, conceptsFound)

		if err := c.graph.Update(ctx, update); err != nil {
			c.logger.Warn("follow-up research-yield update failed", zap.String("question", q), zap.Error(err))
		}
		c.logger.Info("follow-up researched",
			zap.String("question", q),
			zap.Int("entities", entitiesFound),
			zap.Int("concepts", conceptsFound),
		)
	}
}

const synthesizePromptTemplate = `Current answer: %s

Research findings: %s

Rewrite the answer to incorporate these findings, preserving everything
still accurate in the current answer.`

func (c *IterationController) synthesizeEnhanced(ctx context.Context, currentAnswer string, research ports.ResearchResult) (string, error) {
	summary := ""
	for _, d := range research.Details {
		summary += d + "\n"
	}
	prompt := fmt.Sprintf(synthesizePromptTemplate, currentAnswer, summary)
	return c.chat.GenerateResponse(ctx, prompt, nil)
}

const finalizePromptTemplate = `Question: %s

Produce a final, well-organized synthesis of the following answer,
preserving all facts it contains:

%s`

func (c *IterationController) finalize(ctx context.Context, question, currentAnswer string) (string, error) {
	prompt := fmt.Sprintf(finalizePromptTemplate, question, currentAnswer)
	return c.chat.GenerateResponse(ctx, prompt, nil)
}

// extractJSONObject finds the first top-level JSON object in s, tolerating
// leading prose, mirroring the concept extractor's array-salvage strategy
// for the analyze step's object-shaped response.
func extractJSONObject(s string) []byte {
	start := -1
	for i, r := range s {
		if r == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := []byte(s[start : i+1])
				var probe map[string]interface{}
				if json.Unmarshal(candidate, &probe) == nil {
					return candidate
				}
				return nil
			}
		}
	}
	return nil
}
