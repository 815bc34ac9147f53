package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const commColumns = `
	id, lead_id, channel, direction, content, status, template_key,
	provider_message_id, error_detail, created_at`

// AppendCommunication inserts one immutable log entry. There is no update
// path: a record reflects a single dispatch attempt.
func (r *Repository) AppendCommunication(ctx context.Context, p domain.AppendCommunicationParams) (domain.CommunicationRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO communications (
			lead_id, channel, direction, content, status, template_key,
			provider_message_id, error_detail
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+commColumns,
		p.LeadID, p.Channel, p.Direction, p.Content, p.Status, p.TemplateKey,
		p.ProviderMessageID, p.ErrorDetail,
	)

	return scanCommunication(row)
}

// ListRecentCommunications returns up to limit entries for a lead,
// newest first.
func (r *Repository) ListRecentCommunications(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.CommunicationRecord, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+commColumns+`
		FROM communications
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCommunications(rows)
}

// ListCommunications returns the full history for a lead, newest first.
func (r *Repository) ListCommunications(ctx context.Context, leadID uuid.UUID) ([]domain.CommunicationRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+commColumns+`
		FROM communications
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCommunications(rows)
}

func scanCommunication(row pgx.Row) (domain.CommunicationRecord, error) {
	var c domain.CommunicationRecord
	err := row.Scan(
		&c.ID, &c.LeadID, &c.Channel, &c.Direction, &c.Content, &c.Status,
		&c.TemplateKey, &c.ProviderMessageID, &c.ErrorDetail, &c.CreatedAt,
	)
	return c, err
}

func collectCommunications(rows pgx.Rows) ([]domain.CommunicationRecord, error) {
	records := make([]domain.CommunicationRecord, 0)
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}
