package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trainhub/internal/agenda"
	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/db"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/alexanderramin/trainhub/internal/repository"
	"github.com/google/uuid"
)

var (
	// ErrGeneratorUnavailable is returned by Generate when no plan generator
	// is configured, e.g. with the LLM disabled.
	ErrGeneratorUnavailable = errors.New("plan generator not configured")
	// ErrNoBrief is returned by Regenerate for plans saved without a brief.
	ErrNoBrief = errors.New("plan has no stored brief")
	// ErrEmptyTitle is returned when renaming a plan to a blank title.
	ErrEmptyTitle = errors.New("plan title is required")
)

type planService struct {
	plans     repository.PlanRepo
	uow       db.UnitOfWork
	catalog   *catalog.Catalog
	planner   *agenda.Planner
	generator intelligence.PlanGenerator
	observer  UseCaseObserver
	now       func() time.Time
}

// NewPlanService wires plan use cases. generator may be nil; Generate then
// fails with ErrGeneratorUnavailable while every edit keeps working.
func NewPlanService(
	plans repository.PlanRepo,
	uow db.UnitOfWork,
	cat *catalog.Catalog,
	generator intelligence.PlanGenerator,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:     plans,
		uow:       uow,
		catalog:   cat,
		planner:   agenda.NewPlanner(cat.Tools(), cat),
		generator: generator,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *planService) Generate(ctx context.Context, brief domain.PlanBrief) (result *GenerateResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"training_type": string(brief.TrainingType),
		"trainees":      brief.TraineeCount,
	}
	defer observe(ctx, s.observer, "generate-plan", startedAt, fields, &err)

	plan, unknown, err := s.draft(ctx, brief)
	if err != nil {
		return nil, err
	}
	plan.ID = uuid.New().String()
	plan.CreatedAt = s.now()
	plan.UpdatedAt = plan.CreatedAt

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	fields["plan_id"] = plan.ID
	fields["items"] = len(plan.Agenda)
	fields["unknown_activities"] = len(unknown)
	return &GenerateResult{Plan: plan, UnknownActivityIDs: unknown}, nil
}

func (s *planService) Regenerate(ctx context.Context, id string) (result *GenerateResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"plan": id}
	defer observe(ctx, s.observer, "regenerate-plan", startedAt, fields, &err)

	existing, err := s.plans.FindByPrefix(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Brief == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBrief, existing.DisplayID())
	}

	// The model call runs outside the transaction; a failure here never
	// touches the saved plan.
	plan, unknown, err := s.draft(ctx, *existing.Brief)
	if err != nil {
		return nil, err
	}
	plan.ID = existing.ID
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = s.now()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).Update(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	fields["items"] = len(plan.Agenda)
	return &GenerateResult{Plan: plan, UnknownActivityIDs: unknown}, nil
}

// draft asks the generator for an agenda and recalculates it. Nothing is
// saved.
func (s *planService) draft(ctx context.Context, brief domain.PlanBrief) (*domain.SessionPlan, []string, error) {
	if s.generator == nil {
		return nil, nil, ErrGeneratorUnavailable
	}
	if err := brief.Validate(); err != nil {
		return nil, nil, err
	}
	activities := s.catalog.Activities()
	generated, err := s.generator.Generate(ctx, brief, activities)
	if err != nil {
		return nil, nil, err
	}
	plan := s.planner.Recalculate(generated)
	if plan.Brief == nil {
		b := brief
		plan.Brief = &b
	}
	return plan, intelligence.UnknownActivityIDs(plan, activities), nil
}

func (s *planService) Get(ctx context.Context, id string) (*domain.SessionPlan, error) {
	return s.plans.FindByPrefix(ctx, id)
}

func (s *planService) List(ctx context.Context) ([]repository.PlanSummary, error) {
	return s.plans.List(ctx)
}

func (s *planService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "delete-plan", startedAt, map[string]any{"plan": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := repo.FindByPrefix(ctx, id)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, plan.ID)
	})
}

func (s *planService) AddActivity(ctx context.Context, id, activityID string) (*domain.SessionPlan, error) {
	activity, err := s.catalog.GetActivity(activityID)
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, "add-activity", id, map[string]any{"activity": activity.ID},
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			return s.planner.AddActivity(plan, *activity), nil
		})
}

func (s *planService) RemoveActivity(ctx context.Context, id string, index int) (*domain.SessionPlan, error) {
	return s.edit(ctx, "remove-activity", id, map[string]any{"index": index},
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			return s.planner.RemoveActivity(plan, index)
		})
}

func (s *planService) MoveActivity(ctx context.Context, id string, from, to int) (*domain.SessionPlan, error) {
	return s.edit(ctx, "move-activity", id, map[string]any{"from": from, "to": to},
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			return s.planner.ReorderActivity(plan, from, to)
		})
}

func (s *planService) SetDuration(ctx context.Context, id string, index int, raw string) (*domain.SessionPlan, error) {
	return s.edit(ctx, "set-duration", id, map[string]any{"index": index, "input": raw},
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			return s.planner.SetItemDuration(plan, index, raw)
		})
}

func (s *planService) Rename(ctx context.Context, id, title string) (*domain.SessionPlan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return s.edit(ctx, "rename-plan", id, nil,
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			return agenda.Rename(plan, title), nil
		})
}

func (s *planService) Save(ctx context.Context, edited *domain.SessionPlan) (*domain.SessionPlan, error) {
	title := strings.TrimSpace(edited.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	return s.edit(ctx, "save-plan", edited.ID, map[string]any{"items": len(edited.Agenda)},
		func(plan *domain.SessionPlan) (*domain.SessionPlan, error) {
			next := plan.Clone()
			next.Title = title
			next.Agenda = append([]domain.AgendaItem(nil), edited.Agenda...)
			return s.planner.Recalculate(next), nil
		})
}

// edit runs one mutation as a load-mutate-save transaction.
func (s *planService) edit(
	ctx context.Context,
	name, id string,
	fields map[string]any,
	mutate func(*domain.SessionPlan) (*domain.SessionPlan, error),
) (updated *domain.SessionPlan, err error) {
	startedAt := time.Now()
	if fields == nil {
		fields = map[string]any{}
	}
	fields["plan"] = id
	defer observe(ctx, s.observer, name, startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := repo.FindByPrefix(ctx, id)
		if err != nil {
			return err
		}
		next, err := mutate(plan)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now()
		if err := repo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["total_duration"] = updated.TotalDuration
	return updated, nil
}

func (s *planService) ExportText(ctx context.Context, id string) (string, error) {
	plan, err := s.plans.FindByPrefix(ctx, id)
	if err != nil {
		return "", err
	}
	return export.PlainText(plan, s.catalog, export.DefaultCategoryLabel), nil
}

func (s *planService) ExportCalendar(ctx context.Context, id string, start time.Time) (string, error) {
	plan, err := s.plans.FindByPrefix(ctx, id)
	if err != nil {
		return "", err
	}
	return export.Calendar(plan, s.catalog, export.DefaultCategoryLabel, start, export.CalendarOptions{Now: s.now})
}
