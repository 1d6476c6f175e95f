package storage

import (
	"backend/models"
	"backend/utils"
	"database/sql"
	"fmt"
)

// GetCategories returns the active product categories for the landing pages.
func GetCategories(db *sql.DB) ([]models.Category, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, slug, description, active
		FROM category
		WHERE active = TRUE
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %v", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.Active); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// GetProductsByCategory returns the active products inside a category.
func GetProductsByCategory(db *sql.DB, categoryID int) ([]models.Product, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT id, category_id, name, description, min_quantity, base_price, active
		FROM product
		WHERE category_id = $1 AND active = TRUE
		ORDER BY name ASC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %v", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.MinQuantity, &p.BasePrice, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateQuoteRequest inserts a quote request and returns its id.
func CreateQuoteRequest(db *sql.DB, quote *models.QuoteRequest) (int, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	var id int
	err := db.QueryRowContext(ctx, `
		INSERT INTO quote_request (quote_code, customer_id, product_id, quantity, width_mm, height_mm, notes, file_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`,
		quote.QuoteCode, quote.CustomerID, quote.ProductID, quote.Quantity,
		quote.WidthMM, quote.HeightMM, quote.Notes, quote.FilePath, models.QuoteStatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert quote request: %v", err)
	}
	return id, nil
}

const quoteSelect = `
	SELECT q.id, q.quote_code, q.customer_id, u.company_name, q.product_id, p.name,
	       q.quantity, q.width_mm, q.height_mm, q.notes, COALESCE(q.file_path, ''),
	       q.status, COALESCE(q.quoted_price, 0), COALESCE(q.printer_id, 0),
	       COALESCE(q.revision_code, ''), COALESCE(q.order_reference, ''),
	       q.created_at, q.updated_at
	FROM quote_request q
	JOIN users u ON q.customer_id = u.id
	JOIN product p ON q.product_id = p.id`

func scanQuote(scanner interface{ Scan(...interface{}) error }) (models.QuoteRequest, error) {
	var q models.QuoteRequest
	err := scanner.Scan(
		&q.ID, &q.QuoteCode, &q.CustomerID, &q.CustomerName, &q.ProductID, &q.ProductName,
		&q.Quantity, &q.WidthMM, &q.HeightMM, &q.Notes, &q.FilePath,
		&q.Status, &q.QuotedPrice, &q.PrinterID, &q.RevisionCode, &q.OrderReference,
		&q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

// GetQuoteByID fetches a single quote request.
func GetQuoteByID(db *sql.DB, quoteID int) (*models.QuoteRequest, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	row := db.QueryRowContext(ctx, quoteSelect+` WHERE q.id = $1`, quoteID)
	q, err := scanQuote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quote %d not found", quoteID)
		}
		return nil, err
	}
	return &q, nil
}

// ListQuotes returns quote requests. When customerID is non-zero the list is
// restricted to that customer; printers and admins see everything.
func ListQuotes(db *sql.DB, customerID int) ([]models.QuoteRequest, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	query := quoteSelect
	args := []interface{}{}
	if customerID > 0 {
		query += ` WHERE q.customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY q.created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %v", err)
	}
	defer rows.Close()

	var quotes []models.QuoteRequest
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// UpdateQuoteStatus moves a quote to a new status. The caller decides which
// quoted fields survive the transition; accepting or rejecting an offer must
// not wipe the price and printer the answer recorded.
func UpdateQuoteStatus(db *sql.DB, quoteID int, upd models.QuoteStatusUpdate) error {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE quote_request
		SET status = $1, quoted_price = $2, printer_id = NULLIF($3, 0),
		    revision_code = NULLIF($4, ''), order_reference = NULLIF($5, ''),
		    updated_at = NOW()
		WHERE id = $6`,
		upd.Status, upd.QuotedPrice, upd.PrinterID, upd.RevisionCode, upd.OrderReference, quoteID)
	if err != nil {
		return fmt.Errorf("failed to update quote status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quote %d not found", quoteID)
	}
	return nil
}
