package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/foodlog/foodlog/internal/config"
	"github.com/foodlog/foodlog/internal/db"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

type demoFood struct {
	date string
	name string
	meal model.MealType
}

var demoFoods = []demoFood{
	{"2025-09-01", "Grilled Chicken Salad", model.MealLunch},
	{"2025-09-01", "Oatmeal & Berries", model.MealBreakfast},
	{"2025-09-01", "Protein Smoothie", model.MealSnack},
	{"2025-09-02", "Salmon Teriyaki", model.MealDinner},
	{"2025-09-02", "Caesar Wrap", model.MealLunch},
	{"2025-09-02", "Greek Yogurt", model.MealBreakfast},
	{"2025-09-03", "Avocado Toast", model.MealBreakfast},
	{"2025-09-03", "Sushi Set", model.MealDinner},
	{"2025-09-03", "Chicken Pad Thai", model.MealLunch},
	{"2025-09-04", "Pumpkin Soup", model.MealDinner},
	{"2025-09-04", "Mango Sticky Rice", model.MealSnack},
	{"2025-09-04", "Beef Bowl", model.MealLunch},
	{"2025-09-05", "Pancakes", model.MealBreakfast},
	{"2025-09-05", "Tom Yum Soup", model.MealDinner},
}

func SeedCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo food entries for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, conn *sqlx.DB) error {
				err := db.RunMigrations(ctx, conn.DB, cfg.DBDriver)
				if err != nil {
					return err
				}

				n, err := seedFoods(ctx, conn, email)
				if err != nil {
					return err
				}
				fmt.Printf("seeded %d foods for %s\n", n, email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to seed")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func seedFoods(ctx context.Context, conn *sqlx.DB, email string) (int, error) {
	user, err := repository.NewUserRepository(conn).ByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("lookup %s: %w", email, err)
	}

	foods := repository.NewFoodRepository(conn)
	now := time.Now()
	for i, d := range demoFoods {
		eatenOn, err := time.Parse(model.DateLayout, d.date)
		if err != nil {
			return i, err
		}
		err = foods.Create(ctx, &model.Food{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Name:      d.name,
			Meal:      d.meal,
			EatenOn:   eatenOn,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return i, fmt.Errorf("insert %q: %w", d.name, err)
		}
	}
	return len(demoFoods), nil
}
