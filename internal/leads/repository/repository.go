package repository

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `
	id, first_name, last_name, email, phone, status, source, priority,
	timeline, notes, tags, property_interest, budget, last_contacted,
	next_follow_up, consent_given, opt_out_date, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new lead and returns the stored record.
func (r *Repository) Create(ctx context.Context, p domain.CreateLeadParams) (domain.Lead, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, email, phone, status, source, priority,
			timeline, notes, tags, property_interest, budget, last_contacted,
			consent_given
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING`+leadColumns,
		p.FirstName, p.LastName, p.Email, p.Phone, p.Status, p.Source,
		p.Priority, p.Timeline, p.Notes, tags, p.PropertyInterest, p.Budget,
		p.LastContacted, p.ConsentGiven,
	)

	return scanLead(row)
}

// GetByID returns a single lead or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// Update applies merge semantics: nil params leave the stored column
// untouched, non-nil params overwrite it.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p domain.UpdateLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			first_name        = COALESCE($2, first_name),
			last_name         = COALESCE($3, last_name),
			email             = COALESCE($4, email),
			phone             = COALESCE($5, phone),
			status            = COALESCE($6, status),
			source            = COALESCE($7, source),
			priority          = COALESCE($8, priority),
			timeline          = COALESCE($9, timeline),
			notes             = COALESCE($10, notes),
			tags              = COALESCE($11, tags),
			property_interest = COALESCE($12, property_interest),
			budget            = COALESCE($13, budget),
			last_contacted    = COALESCE($14, last_contacted),
			next_follow_up    = COALESCE($15, next_follow_up),
			consent_given     = COALESCE($16, consent_given),
			opt_out_date      = COALESCE($17, opt_out_date),
			updated_at        = now()
		WHERE id = $1
		RETURNING`+leadColumns,
		id, p.FirstName, p.LastName, p.Email, p.Phone, p.Status, p.Source,
		p.Priority, p.Timeline, p.Notes, p.Tags, p.PropertyInterest, p.Budget,
		p.LastContacted, p.NextFollowUp, p.ConsentGiven, p.OptOutDate,
	)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// FindByEmail returns all leads with the given email, oldest first.
// Ordering within equal timestamps is store-defined, not application-defined.
func (r *Repository) FindByEmail(ctx context.Context, email string) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE email = $1 ORDER BY created_at ASC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// FindByPhone returns all leads with the given phone, oldest first.
func (r *Repository) FindByPhone(ctx context.Context, phone string) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+leadColumns+` FROM leads WHERE phone = $1 ORDER BY created_at ASC`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListFilter narrows List results; zero values mean "no filter".
type ListFilter struct {
	Status   *domain.Status
	Priority *domain.Priority
	Limit    int
	Offset   int
}

// List returns leads for the dashboard, newest first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]domain.Lead, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR priority = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.Status, f.Priority, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// TouchLastContacted stamps the last outbound contact time.
func (r *Repository) TouchLastContacted(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET last_contacted = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAged returns contactable leads whose last contact is older than the
// cutoff. Never-contacted leads are always included.
func (r *Repository) ListAged(ctx context.Context, cutoff time.Time) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		WHERE (last_contacted IS NULL OR last_contacted <= $1)
		  AND status <> $2
		  AND consent_given
		ORDER BY last_contacted ASC NULLS FIRST
	`, cutoff, domain.StatusOptedOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Status,
		&l.Source, &l.Priority, &l.Timeline, &l.Notes, &l.Tags,
		&l.PropertyInterest, &l.Budget, &l.LastContacted, &l.NextFollowUp,
		&l.ConsentGiven, &l.OptOutDate, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}
