package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFoodNotFound  = errors.New("food not found")
	errMalformedFood = errors.New("malformed food row")
)

// UntitledFood replaces an empty stored name.
const UntitledFood = "(untitled)"

type FoodRepository interface {
	Create(ctx context.Context, food *model.Food) error
	ByID(ctx context.Context, userID, foodID string) (*model.Food, error)
	// Recent returns up to limit entries of the user, newest date first.
	// Rows that cannot be decoded are skipped.
	Recent(ctx context.Context, userID string, limit int) ([]*model.Food, error)
	Update(ctx context.Context, food *model.Food) error
	Delete(ctx context.Context, userID, foodID string) error
}

type foodRepository struct {
	db *sqlx.DB
}

func NewFoodRepository(db *sqlx.DB) FoodRepository {
	return &foodRepository{db: db}
}

// foodRow mirrors the foods table loosely so that bad values surface in
// decodeFood instead of failing the whole scan.
type foodRow struct {
	ID        sql.NullString `db:"id"`
	UserID    sql.NullString `db:"user_id"`
	Name      sql.NullString `db:"name"`
	Meal      sql.NullString `db:"meal"`
	EatenOn   sql.NullString `db:"eaten_on"`
	ImageRef  sql.NullString `db:"image_ref"`
	CreatedAt sql.NullTime   `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

const foodColumns = `id, user_id, name, meal, eaten_on, image_ref, created_at, updated_at`

var dateLayouts = []string{model.DateLayout, time.RFC3339Nano, "2006-01-02 15:04:05"}

func parseFoodDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	if len(s) > len(model.DateLayout) {
		t, err := time.Parse(model.DateLayout, s[:len(model.DateLayout)])
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decodeFood narrows a raw row into a Food. Unknown meals fall back to
// Breakfast, unreadable dates to now and empty names to UntitledFood.
func decodeFood(row *foodRow) (*model.Food, error) {
	if !row.ID.Valid || row.ID.String == "" {
		return nil, errMalformedFood
	}

	food := &model.Food{
		ID:        row.ID.String,
		UserID:    row.UserID.String,
		Name:      strings.TrimSpace(row.Name.String),
		Meal:      model.MealType(row.Meal.String),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}

	if food.Name == "" {
		food.Name = UntitledFood
	}
	if !food.Meal.Valid() {
		food.Meal = model.MealBreakfast
	}

	eatenOn, ok := parseFoodDate(row.EatenOn.String)
	if !ok {
		eatenOn = time.Now()
	}
	food.EatenOn = eatenOn

	if row.ImageRef.Valid && row.ImageRef.String != "" {
		ref := row.ImageRef.String
		food.ImageRef = &ref
	}

	return food, nil
}

func (r *foodRepository) Create(ctx context.Context, food *model.Food) error {
	query := `INSERT INTO foods (` + foodColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		food.ID,
		food.UserID,
		food.Name,
		string(food.Meal),
		food.DateString(),
		food.ImageRef,
		food.CreatedAt,
		food.UpdatedAt,
	)

	return err
}

func (r *foodRepository) ByID(ctx context.Context, userID, foodID string) (*model.Food, error) {
	var row foodRow
	query := `SELECT ` + foodColumns + ` FROM foods WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &row, query, foodID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, err
	}

	food, err := decodeFood(&row)
	if err != nil {
		return nil, ErrFoodNotFound
	}
	return food, nil
}

func (r *foodRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.Food, error) {
	query := `SELECT ` + foodColumns + ` FROM foods WHERE user_id = $1 ORDER BY eaten_on DESC, created_at DESC LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make([]*model.Food, 0, limit)
	for rows.Next() {
		var row foodRow
		if err := rows.StructScan(&row); err != nil {
			slog.Warn("skipping unreadable food row", "error", err, "user_id", userID)
			continue
		}
		food, err := decodeFood(&row)
		if err != nil {
			slog.Warn("skipping malformed food row", "error", err, "user_id", userID)
			continue
		}
		foods = append(foods, food)
	}

	return foods, rows.Err()
}

func (r *foodRepository) Update(ctx context.Context, food *model.Food) error {
	query := `UPDATE foods SET name = $1, meal = $2, eaten_on = $3, image_ref = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.ExecContext(ctx, query,
		food.Name,
		string(food.Meal),
		food.DateString(),
		food.ImageRef,
		food.UpdatedAt,
		food.ID,
		food.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFoodNotFound
	}

	return nil
}

func (r *foodRepository) Delete(ctx context.Context, userID, foodID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM foods WHERE id = $1 AND user_id = $2`, foodID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFoodNotFound
	}

	return nil
}
