package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type MySQLCatalogRepo struct{ db *sql.DB }

func NewMySQLCatalogRepo(db *sql.DB) *MySQLCatalogRepo { return &MySQLCatalogRepo{db: db} }

func (r *MySQLCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,name,COALESCE(description,''),price_cents,category,COALESCE(image_url,''),created_at
FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
			&p.Category, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *MySQLCatalogRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx, `
SELECT id,name,COALESCE(description,''),price_cents,category,COALESCE(image_url,''),created_at
FROM products WHERE id=?`, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
		&p.Category, &p.ImageURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MySQLCatalogRepo) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (id,name,description,price_cents,category,image_url,created_at)
VALUES (?,?,?,?,?,?,NOW())
`, p.ID, p.Name, p.Description, p.PriceCents, p.Category, p.ImageURL)
	return err
}

func (r *MySQLCatalogRepo) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=?,description=?,price_cents=?,category=? WHERE id=?`
	args := []any{p.Name, p.Description, p.PriceCents, p.Category, p.ID}
	if p.ImageURL != "" {
		// Keep the stored image unless a new one was uploaded.
		query = `UPDATE products SET name=?,description=?,price_cents=?,category=?,image_url=? WHERE id=?`
		args = []any{p.Name, p.Description, p.PriceCents, p.Category, p.ImageURL, p.ID}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *MySQLCatalogRepo) DeleteProduct(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_add_ons WHERE product_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MySQLCatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id,name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *MySQLCatalogRepo) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories (id,name) VALUES (?,?)`, c.ID, c.Name)
	return err
}

func (r *MySQLCatalogRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *MySQLCatalogRepo) ListAddOns(ctx context.Context) ([]domain.AddOn, error) {
	return r.addOns(ctx, `SELECT id,name,price_cents FROM add_ons ORDER BY name`)
}

func (r *MySQLCatalogRepo) CreateAddOn(ctx context.Context, a *domain.AddOn) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO add_ons (id,name,price_cents) VALUES (?,?,?)`, a.ID, a.Name, a.PriceCents)
	return err
}

func (r *MySQLCatalogRepo) DeleteAddOn(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_add_ons WHERE add_on_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM add_ons WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MySQLCatalogRepo) ProductAddOns(ctx context.Context, productID string) ([]domain.AddOn, error) {
	return r.addOns(ctx, `
SELECT a.id,a.name,a.price_cents
FROM add_ons a JOIN product_add_ons pa ON pa.add_on_id = a.id
WHERE pa.product_id=? ORDER BY a.name`, productID)
}

func (r *MySQLCatalogRepo) SetProductAddOns(ctx context.Context, productID string, addOnIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_add_ons WHERE product_id=?`, productID); err != nil {
		return err
	}
	for _, addOnID := range addOnIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_add_ons (product_id,add_on_id) VALUES (?,?)`, productID, addOnID); err != nil {
			return fmt.Errorf("link add-on %s: %w", addOnID, err)
		}
	}
	return tx.Commit()
}

func (r *MySQLCatalogRepo) addOns(ctx context.Context, query string, args ...any) ([]domain.AddOn, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addOns []domain.AddOn
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents); err != nil {
			return nil, err
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

var _ usecase.CatalogRepo = (*MySQLCatalogRepo)(nil)
