package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/feed"
	"github.com/foodlog/foodlog/internal/metrics"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

var ErrFoodNotFound = errors.New("food not found")

// FoodForm is the raw add/update form. Image is nil when no photo was chosen.
type FoodForm struct {
	Name  string
	Meal  string
	Date  string
	Image *Image
}

type foodFields struct {
	name    string
	meal    model.MealType
	eatenOn time.Time
}

func (f FoodForm) validate() (foodFields, error) {
	name := strings.TrimSpace(f.Name)
	if err := validation.ValidateFoodName(name); err != nil {
		return foodFields{}, invalid(err)
	}
	meal, err := validation.ValidateMeal(f.Meal)
	if err != nil {
		return foodFields{}, invalid(err)
	}
	eatenOn, err := validation.ValidateFoodDate(f.Date)
	if err != nil {
		return foodFields{}, invalid(err)
	}
	return foodFields{name: name, meal: meal, eatenOn: eatenOn}, nil
}

type FoodService struct {
	repo       repository.FoodRepository
	files      *FileService
	images     *ImageResolver
	publisher  feed.Publisher
	fetchLimit int
	pageSize   int
}

func NewFoodService(
	repo repository.FoodRepository,
	files *FileService,
	images *ImageResolver,
	publisher feed.Publisher,
	fetchLimit int,
	pageSize int,
) *FoodService {
	return &FoodService{
		repo:       repo,
		files:      files,
		images:     images,
		publisher:  publisher,
		fetchLimit: fetchLimit,
		pageSize:   pageSize,
	}
}

// List fetches the user's most recent entries and returns the requested page
// of those whose name contains query.
func (s *FoodService) List(ctx context.Context, userID, query string, page int) (*model.FoodPage, error) {
	foods, err := s.repo.Recent(ctx, userID, s.fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load foods: %w", err)
	}

	filtered := FilterFoods(foods, query)
	SortFoods(filtered)

	result := Paginate(filtered, page, s.pageSize)
	result.Query = strings.TrimSpace(query)
	for _, food := range result.Items {
		food.ImageURL = s.images.Resolve(ctx, food.ImageRef)
	}

	return result, nil
}

func (s *FoodService) ByID(ctx context.Context, userID, foodID string) (*model.Food, error) {
	food, err := s.repo.ByID(ctx, userID, foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to load food: %w", err)
	}

	food.ImageURL = s.images.Resolve(ctx, food.ImageRef)
	return food, nil
}

func (s *FoodService) Create(ctx context.Context, userID string, form FoodForm) (*model.Food, error) {
	fields, err := form.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	food := &model.Food{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      fields.name,
		Meal:      fields.meal,
		EatenOn:   fields.eatenOn,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var uploaded string
	if form.Image != nil {
		uploaded = newFoodImagePath(userID, now, form.Image)
		err = s.files.Upload(ctx, uploaded, form.Image)
		if err != nil {
			return nil, err
		}
		food.ImageRef = &uploaded
	}

	err = s.repo.Create(ctx, food)
	if err != nil {
		if uploaded != "" {
			s.files.Discard(ctx, uploaded)
		}
		return nil, fmt.Errorf("failed to create food: %w", err)
	}

	metrics.FoodMutations.WithLabelValues("create").Inc()
	slog.Info("food created", "user_id", userID, "food_id", food.ID)
	s.notify(ctx, feed.Event{UserID: userID, Kind: feed.KindCreated, FoodID: food.ID})
	return food, nil
}

// Update rewrites the entry's fields. The stored image only changes when a
// new photo is uploaded.
func (s *FoodService) Update(ctx context.Context, userID, foodID string, form FoodForm) (*model.Food, error) {
	food, err := s.repo.ByID(ctx, userID, foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to load food: %w", err)
	}

	fields, err := form.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	food.Name = fields.name
	food.Meal = fields.meal
	food.EatenOn = fields.eatenOn
	food.UpdatedAt = now

	var uploaded string
	if form.Image != nil {
		uploaded = replacedFoodImagePath(userID, foodID, now, form.Image)
		err = s.files.Upload(ctx, uploaded, form.Image)
		if err != nil {
			return nil, err
		}
		food.ImageRef = &uploaded
	}

	err = s.repo.Update(ctx, food)
	if err != nil {
		if uploaded != "" {
			s.files.Discard(ctx, uploaded)
		}
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to update food: %w", err)
	}

	metrics.FoodMutations.WithLabelValues("update").Inc()
	s.notify(ctx, feed.Event{UserID: userID, Kind: feed.KindUpdated, FoodID: food.ID})
	return food, nil
}

func (s *FoodService) Delete(ctx context.Context, userID, foodID string) error {
	err := s.repo.Delete(ctx, userID, foodID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return ErrFoodNotFound
		}
		return fmt.Errorf("failed to delete food: %w", err)
	}

	metrics.FoodMutations.WithLabelValues("delete").Inc()
	s.notify(ctx, feed.Event{UserID: userID, Kind: feed.KindDeleted, FoodID: foodID})
	return nil
}

// notify must not fail a write that already happened.
func (s *FoodService) notify(ctx context.Context, ev feed.Event) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, ev)
	if err != nil {
		slog.Warn("failed to publish food change", "error", err, "user_id", ev.UserID)
	}
}

// FilterFoods keeps the entries whose name contains the trimmed query,
// ignoring case. An empty query keeps everything.
func FilterFoods(foods []*model.Food, query string) []*model.Food {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]*model.Food(nil), foods...)
	}

	fold := cases.Fold()
	needle := fold.String(query)

	filtered := make([]*model.Food, 0, len(foods))
	for _, food := range foods {
		if strings.Contains(fold.String(food.Name), needle) {
			filtered = append(filtered, food)
		}
	}
	return filtered
}

// SortFoods orders by date, newest first. Entries of the same day keep
// their newest-created-first order.
func SortFoods(foods []*model.Food) {
	sort.SliceStable(foods, func(i, j int) bool {
		return foods[i].EatenOn.After(foods[j].EatenOn)
	})
}

// Paginate cuts one page out of foods. There is always at least one page and
// the requested page is clamped into range.
func Paginate(foods []*model.Food, page, size int) *model.FoodPage {
	if size <= 0 {
		size = 7
	}

	total := len(foods)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	result := &model.FoodPage{
		Items:      foods[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
	if total > 0 {
		result.From = start + 1
		result.To = end
	}
	return result
}
