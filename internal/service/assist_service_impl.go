package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/intelligence"
)

type quizService struct {
	generator intelligence.QuizGenerator
	observer  UseCaseObserver
}

// NewQuizService wraps a quiz generator with use-case telemetry. A nil
// generator makes every call fail with ErrGeneratorUnavailable.
func NewQuizService(generator intelligence.QuizGenerator, observers ...UseCaseObserver) QuizService {
	return &quizService{generator: generator, observer: useCaseObserverOrNoop(observers)}
}

func (s *quizService) Generate(ctx context.Context, req domain.QuizRequest) (questions []domain.QuizQuestion, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"requested":  req.TotalQuestions(),
		"difficulty": string(req.Difficulty),
	}
	defer observe(ctx, s.observer, "generate-quiz", startedAt, fields, &err)

	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	questions, err = s.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["returned"] = len(questions)
	return questions, nil
}

type adviceService struct {
	catalog  *catalog.Catalog
	advisor  intelligence.ToolAdvisor
	observer UseCaseObserver
}

// NewAdviceService answers tool questions against the catalog's toolbox.
func NewAdviceService(cat *catalog.Catalog, advisor intelligence.ToolAdvisor, observers ...UseCaseObserver) AdviceService {
	return &adviceService{catalog: cat, advisor: advisor, observer: useCaseObserverOrNoop(observers)}
}

func (s *adviceService) Ask(ctx context.Context, toolIDOrName, question string, history []intelligence.ChatTurn) (answer string, updated []intelligence.ChatTurn, err error) {
	startedAt := time.Now()
	fields := map[string]any{"tool": toolIDOrName, "turns": len(history)}
	defer observe(ctx, s.observer, "tool-advice", startedAt, fields, &err)

	tool, err := s.catalog.GetTool(toolIDOrName)
	if err != nil {
		return "", history, err
	}
	if s.advisor == nil {
		return "", history, ErrGeneratorUnavailable
	}
	return s.advisor.Ask(ctx, *tool, question, history)
}
