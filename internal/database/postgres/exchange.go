package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
)

const selectExchangeRequestSQL = `
	SELECT request_id::text, creator_user_id, creator_character_id, creator_character_name,
	       from_currency, from_amount, to_currency, to_amount, created_at
	FROM exchange_requests`

// ExchangeRepository implements repository.Exchange for PostgreSQL
type ExchangeRepository struct {
	db *pgxpool.Pool
}

// NewExchangeRepository creates a new ExchangeRepository
func NewExchangeRepository(db *pgxpool.Pool) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

// BeginTx starts a serializable transaction
func (r *ExchangeRepository) BeginTx(ctx context.Context) (repository.ExchangeTx, error) {
	tx, err := beginSerializable(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListExchangeRequests returns open requests, oldest first
func (r *ExchangeRepository) ListExchangeRequests(ctx context.Context) ([]domain.ExchangeRequest, error) {
	rows, err := r.db.Query(ctx, selectExchangeRequestSQL+` ORDER BY created_at, request_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange requests: %w", err)
	}
	defer rows.Close()

	var out []domain.ExchangeRequest
	for rows.Next() {
		req, err := scanExchangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange request: %w", err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange requests: %w", err)
	}
	return out, nil
}

func scanExchangeRequest(row pgx.Row) (*domain.ExchangeRequest, error) {
	var (
		req      domain.ExchangeRequest
		from, to string
	)
	if err := row.Scan(&req.ID, &req.CreatorUserID, &req.CreatorCharacterID, &req.CreatorCharacterName,
		&from, &req.FromAmount, &to, &req.ToAmount, &req.CreatedAt); err != nil {
		return nil, err
	}
	req.FromCurrency = domain.Denomination(from)
	req.ToCurrency = domain.Denomination(to)
	return &req, nil
}
