package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trainhub/internal/db"
	"github.com/alexanderramin/trainhub/internal/domain"
)

// SQLitePlanRepo implements PlanRepo. Writes touch two tables; callers that
// need atomicity build the repo from the DBTX of a UnitOfWork.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a plan repository over a *sql.DB or *sql.Tx.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, title, total_duration, required_tools, brief, created_at, updated_at`

// Create inserts the plan and its agenda. Zero timestamps are set to now.
func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.SessionPlan) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = nowUTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	tools, brief, err := encodePlan(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.TotalDuration, tools, brief,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session plan: %w", err)
	}
	return r.insertItems(ctx, p.ID, p.Agenda)
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.SessionPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM session_plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, err
	}
	if p.Agenda, err = r.listItems(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) FindByPrefix(ctx context.Context, prefix string) (*domain.SessionPlan, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	p, err := r.GetByID(ctx, prefix)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return p, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM session_plans WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT 2`,
		prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("resolving plan prefix: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning plan id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return r.GetByID(ctx, ids[0])
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]PlanSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.id, p.title, p.total_duration, p.updated_at,
			(SELECT COUNT(*) FROM agenda_items i WHERE i.plan_id = p.id)
		FROM session_plans p ORDER BY p.updated_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("listing session plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var s PlanSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.TotalDuration, &s.UpdatedAt, &s.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning session plan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session plans: %w", err)
	}
	return out, nil
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.SessionPlan) error {
	tools, brief, err := encodePlan(p)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE session_plans SET title = ?, total_duration = ?, required_tools = ?, brief = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.TotalDuration, tools, brief, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session plan: %w", err)
	}
	if err := requireAffected(res, p.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM agenda_items WHERE plan_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clearing agenda: %w", err)
	}
	return r.insertItems(ctx, p.ID, p.Agenda)
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session plan: %w", err)
	}
	return requireAffected(res, id)
}

func (r *SQLitePlanRepo) insertItems(ctx context.Context, planID string, items []domain.AgendaItem) error {
	for i, it := range items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO agenda_items (plan_id, position, activity_id, duration, justification, start_time, end_time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			planID, i, it.ActivityID, it.Duration, it.Justification, it.StartTime, it.EndTime,
		)
		if err != nil {
			return fmt.Errorf("inserting agenda item %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) listItems(ctx context.Context, planID string) ([]domain.AgendaItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT activity_id, duration, justification, start_time, end_time
		FROM agenda_items WHERE plan_id = ? ORDER BY position`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing agenda items: %w", err)
	}
	defer rows.Close()

	items := []domain.AgendaItem{}
	for rows.Next() {
		var it domain.AgendaItem
		if err := rows.Scan(&it.ActivityID, &it.Duration, &it.Justification, &it.StartTime, &it.EndTime); err != nil {
			return nil, fmt.Errorf("scanning agenda item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agenda items: %w", err)
	}
	return items, nil
}

func encodePlan(p *domain.SessionPlan) (tools string, brief any, err error) {
	required := p.RequiredTools
	if required == nil {
		required = []string{}
	}
	data, err := json.Marshal(required)
	if err != nil {
		return "", nil, fmt.Errorf("encoding required tools: %w", err)
	}
	brief, err = nullableJSON(p.Brief)
	if err != nil {
		return "", nil, fmt.Errorf("encoding plan brief: %w", err)
	}
	return string(data), brief, nil
}

func scanPlan(row *sql.Row) (*domain.SessionPlan, error) {
	var (
		p                    domain.SessionPlan
		tools                string
		brief                sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Title, &p.TotalDuration, &tools, &brief, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning session plan: %w", err)
	}

	if err := json.Unmarshal([]byte(tools), &p.RequiredTools); err != nil {
		return nil, fmt.Errorf("decoding required tools: %w", err)
	}
	if p.Brief, err = parseNullableJSON[domain.PlanBrief](brief); err != nil {
		return nil, fmt.Errorf("decoding plan brief: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
