package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/dinner-party-reservation/internal/model"
)

// FoodItemRepo provides persistence for the food items an event asks
// its guests to bring.  Claim arithmetic is done entirely in SQL with
// conditional updates, so two guests racing for the last unit of a dish
// resolve to exactly one winner without any application-level locking.
type FoodItemRepo struct {
	db *sql.DB
}

// NewFoodItemRepo returns a new FoodItemRepo bound to the given database.
func NewFoodItemRepo(db *sql.DB) *FoodItemRepo { return &FoodItemRepo{db: db} }

const foodColumns = `id, event_id, name, description, quantity_needed, quantity_claimed`

func scanFoodItem(scan func(dest ...any) error) (model.FoodItem, error) {
	var (
		f    model.FoodItem
		desc sql.NullString
	)
	err := scan(&f.ID, &f.EventID, &f.Name, &desc, &f.QuantityNeeded, &f.QuantityClaimed)
	if err != nil {
		return f, err
	}
	if desc.Valid {
		v := desc.String
		f.Description = &v
	}
	return f, nil
}

// CreateBulkTx inserts the initial food items of an event in a single
// statement, as part of the event-creation transaction.
func (r *FoodItemRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, eventID uint64, items []model.FoodItem) error {
	if len(items) == 0 {
		return nil
	}
	q := `INSERT INTO event_food_items (event_id, name, description, quantity_needed) VALUES `
	args := make([]any, 0, len(items)*4)
	for i := range items {
		if i > 0 {
			q += ","
		}
		q += "(?,?,?,?)"
		args = append(args, eventID, items[i].Name, items[i].Description, items[i].QuantityNeeded)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// CreateTx inserts one food item added after the event already exists.
func (r *FoodItemRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.FoodItem) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO event_food_items (event_id, name, description, quantity_needed) VALUES (?,?,?,?)`,
		f.EventID, f.Name, f.Description, f.QuantityNeeded)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListByEvent returns the food items of an event in creation order.
func (r *FoodItemRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.FoodItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM event_food_items WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FoodItem, 0)
	for rows.Next() {
		f, err := scanFoodItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ClaimTx atomically claims one unit of a food item for the given
// event.  The WHERE clause carries the capacity check, so among any number
// of concurrent claimants for the last unit exactly one update matches
// the row; everyone else gets ErrFullyClaimed.  ErrNotFound when the item
// does not belong to the event at all.
func (r *FoodItemRepo) ClaimTx(ctx context.Context, tx *sql.Tx, eventID, itemID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE event_food_items SET quantity_claimed = quantity_claimed + 1
		 WHERE id = ? AND event_id = ? AND quantity_claimed < quantity_needed`,
		itemID, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_food_items WHERE id = ? AND event_id = ?`,
		itemID, eventID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrFullyClaimed
}

// ReleaseTx returns one unit of a food item to the pool, floored at
// zero so a duplicate release of an already-released claim is a no-op
// rather than an underflow.
func (r *FoodItemRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, itemID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE event_food_items SET quantity_claimed = quantity_claimed - 1
		 WHERE id = ? AND quantity_claimed > 0`, itemID)
	return err
}
