package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
)

// LinkRepository stores ERP order-number to internal-id mappings. The
// feed is last-write-wins per (erp_order_number, company_id).
type LinkRepository struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

func (r *LinkRepository) Save(ctx context.Context, link *domain.OrderLink) error {
	if link == nil {
		return fmt.Errorf("link is nil")
	}

	const query = `
		INSERT INTO order_links (erp_order_number, company_id, internal_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (erp_order_number, company_id) DO UPDATE
		SET internal_id = EXCLUDED.internal_id,
			updated_at = EXCLUDED.updated_at;
	`

	_, err := r.pool.Exec(ctx, query,
		link.ERPOrderNumber,
		link.CompanyID,
		link.InternalID,
		link.UpdatedAt,
	)
	return err
}

// FindByERPNumber returns the stored link, or (nil, nil) when no mapping
// is known. Rows without a company scope match any company.
func (r *LinkRepository) FindByERPNumber(ctx context.Context, erpOrderNumber, companyID string) (*domain.OrderLink, error) {
	const query = `
		SELECT erp_order_number, company_id, internal_id, updated_at
		FROM order_links
		WHERE erp_order_number = $1 AND (company_id = $2 OR company_id = '')
		ORDER BY company_id DESC
		LIMIT 1;
	`
	var l domain.OrderLink
	err := r.pool.QueryRow(ctx, query, erpOrderNumber, companyID).Scan(
		&l.ERPOrderNumber,
		&l.CompanyID,
		&l.InternalID,
		&l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
