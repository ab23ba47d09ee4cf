// Package db - Product catalog storage.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"landed-cost/core/types"
	"landed-cost/internal/errors"
)

// Store is the Postgres-backed product catalog.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.TypeCatalog, "failed to open catalog pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.TypeCatalog, "failed to reach catalog database", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

const productColumns = `
	id, seller_id, name, category, origin_port,
	price_unit, moq, volume_m3, weight_kg, lead_time_days,
	freight_cost_per_m3, origin_expenses, marine_insurance_percentage,
	destination_expenses, tariff_percentage, vat_percentage,
	discount_3u, discount_5u, discount_8u, discount_10u,
	shipping_cost_total, cif_value, marine_insurance_cost,
	taxable_base, tariff_cost, vat_cost, total_cost_with_taxes`

// GetProduct loads one catalog row.
func (s *Store) GetProduct(ctx context.Context, id string) (*types.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("product", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.TypeCatalog, "failed to load product", err)
	}
	return p, nil
}

// ListProducts returns catalog rows for a seller, or all rows when
// sellerID is empty.
func (s *Store) ListProducts(ctx context.Context, sellerID string) ([]types.Product, error) {
	query := `SELECT` + productColumns + ` FROM products ORDER BY name`
	args := []interface{}{}
	if sellerID != "" {
		query = `SELECT` + productColumns + ` FROM products WHERE seller_id = $1 ORDER BY name`
		args = append(args, sellerID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.TypeCatalog, "failed to list products", err)
	}
	defer rows.Close()

	var out []types.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(errors.TypeCatalog, "failed to scan product", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.TypeCatalog, "failed to read products", err)
	}
	return out, nil
}

// UpsertProduct inserts or replaces a catalog row.
func (s *Store) UpsertProduct(ctx context.Context, p *types.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		ON CONFLICT (id) DO UPDATE SET
			seller_id = EXCLUDED.seller_id,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			origin_port = EXCLUDED.origin_port,
			price_unit = EXCLUDED.price_unit,
			moq = EXCLUDED.moq,
			volume_m3 = EXCLUDED.volume_m3,
			weight_kg = EXCLUDED.weight_kg,
			lead_time_days = EXCLUDED.lead_time_days,
			freight_cost_per_m3 = EXCLUDED.freight_cost_per_m3,
			origin_expenses = EXCLUDED.origin_expenses,
			marine_insurance_percentage = EXCLUDED.marine_insurance_percentage,
			destination_expenses = EXCLUDED.destination_expenses,
			tariff_percentage = EXCLUDED.tariff_percentage,
			vat_percentage = EXCLUDED.vat_percentage,
			discount_3u = EXCLUDED.discount_3u,
			discount_5u = EXCLUDED.discount_5u,
			discount_8u = EXCLUDED.discount_8u,
			discount_10u = EXCLUDED.discount_10u,
			shipping_cost_total = EXCLUDED.shipping_cost_total,
			cif_value = EXCLUDED.cif_value,
			marine_insurance_cost = EXCLUDED.marine_insurance_cost,
			taxable_base = EXCLUDED.taxable_base,
			tariff_cost = EXCLUDED.tariff_cost,
			vat_cost = EXCLUDED.vat_cost,
			total_cost_with_taxes = EXCLUDED.total_cost_with_taxes,
			updated_at = now()
	`,
		p.ID, p.SellerID, p.Name, p.Category, p.OriginPort,
		p.PriceUnit, p.MOQ, nullable(p.VolumeM3), nullable(p.WeightKg), p.LeadTimeDays,
		nullable(p.FreightCostPerM3), nullable(p.OriginExpenses), nullable(p.MarineInsurancePercentage),
		nullable(p.DestinationExpenses), nullable(p.TariffPercentage), nullable(p.VATPercentage),
		nullable(p.Discount3u), nullable(p.Discount5u), nullable(p.Discount8u), nullable(p.Discount10u),
		nullable(p.ShippingCostTotal), nullable(p.CIFValue), nullable(p.MarineInsuranceCost),
		nullable(p.TaxableBase), nullable(p.TariffCost), nullable(p.VATCost), nullable(p.TotalCostWithTaxes),
	)
	if err != nil {
		return errors.Wrap(errors.TypeCatalog, "failed to upsert product", err)
	}
	return nil
}

// DeleteProduct removes a catalog row.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(errors.TypeCatalog, "failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("product", id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	var (
		volumeM3, weightKg, freightPerM3, originExp, insurancePct,
		destExp, tariffPct, vatPct,
		d3, d5, d8, d10,
		shipTotal, cifValue, insuranceCost, taxableBase, tariffCost, vatCost, totalCost decimal.NullDecimal
	)

	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Category, &p.OriginPort,
		&p.PriceUnit, &p.MOQ, &volumeM3, &weightKg, &p.LeadTimeDays,
		&freightPerM3, &originExp, &insurancePct,
		&destExp, &tariffPct, &vatPct,
		&d3, &d5, &d8, &d10,
		&shipTotal, &cifValue, &insuranceCost,
		&taxableBase, &tariffCost, &vatCost, &totalCost,
	)
	if err != nil {
		return nil, err
	}

	p.VolumeM3 = fromNull(volumeM3)
	p.WeightKg = fromNull(weightKg)
	p.FreightCostPerM3 = fromNull(freightPerM3)
	p.OriginExpenses = fromNull(originExp)
	p.MarineInsurancePercentage = fromNull(insurancePct)
	p.DestinationExpenses = fromNull(destExp)
	p.TariffPercentage = fromNull(tariffPct)
	p.VATPercentage = fromNull(vatPct)
	p.Discount3u = fromNull(d3)
	p.Discount5u = fromNull(d5)
	p.Discount8u = fromNull(d8)
	p.Discount10u = fromNull(d10)
	p.ShippingCostTotal = fromNull(shipTotal)
	p.CIFValue = fromNull(cifValue)
	p.MarineInsuranceCost = fromNull(insuranceCost)
	p.TaxableBase = fromNull(taxableBase)
	p.TariffCost = fromNull(tariffCost)
	p.VATCost = fromNull(vatCost)
	p.TotalCostWithTaxes = fromNull(totalCost)

	return &p, nil
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
