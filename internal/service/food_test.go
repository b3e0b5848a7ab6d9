package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foodlog/foodlog/internal/feed"
	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foodsNamed(names ...string) []*model.Food {
	foods := make([]*model.Food, len(names))
	base := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for i, name := range names {
		foods[i] = &model.Food{ID: fmt.Sprint(i), Name: name, EatenOn: base.AddDate(0, 0, -i)}
	}
	return foods
}

func TestFilterFoods_CaseInsensitiveSubstring(t *testing.T) {
	foods := foodsNamed("Pancakes", "Chicken Salad", "pancake stack", "Soup", "STRASSE Brötchen")

	got := FilterFoods(foods, "  PANCAKE ")
	require.Len(t, got, 2)
	for _, food := range got {
		assert.Contains(t, strings.ToLower(food.Name), "pancake")
	}

	assert.Len(t, FilterFoods(foods, ""), len(foods))
	assert.Len(t, FilterFoods(foods, "   "), len(foods))
	assert.Empty(t, FilterFoods(foods, "pizza"))
	assert.Len(t, FilterFoods(foods, "straße"), 1)
}

func TestSortFoods_NewestFirst(t *testing.T) {
	foods := foodsNamed("a", "b", "c")
	foods[0], foods[2] = foods[2], foods[0]

	SortFoods(foods)
	assert.Equal(t, []string{"a", "b", "c"}, []string{foods[0].Name, foods[1].Name, foods[2].Name})
}

func TestPaginate_PageCountAndClamping(t *testing.T) {
	for n := 0; n <= 30; n++ {
		foods := foodsNamed(make([]string, n)...)
		want := (n + 6) / 7
		if want < 1 {
			want = 1
		}

		for _, page := range []int{-3, 0, 1, 2, 5, 100} {
			p := Paginate(foods, page, 7)
			assert.Equal(t, want, p.TotalPages, "n=%d", n)
			assert.GreaterOrEqual(t, p.Page, 1)
			assert.LessOrEqual(t, p.Page, p.TotalPages)
			assert.LessOrEqual(t, len(p.Items), 7)
			assert.Equal(t, n, p.Total)
		}
	}
}

func TestPaginate_ShowingRange(t *testing.T) {
	foods := foodsNamed(make([]string, 16)...)

	p := Paginate(foods, 3, 7)
	assert.Equal(t, 15, p.From)
	assert.Equal(t, 16, p.To)
	assert.Len(t, p.Items, 2)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	empty := Paginate(nil, 4, 7)
	assert.Equal(t, 1, empty.Page)
	assert.Zero(t, empty.From)
	assert.Zero(t, empty.To)
}

type foodFixture struct {
	svc    *FoodService
	repo   repository.FoodRepository
	bucket *testutil.MemoryStorage
	hub    *feed.Hub
	user   *model.User
}

func newFoodFixture(t *testing.T) *foodFixture {
	t.Helper()

	conn := testutil.NewDB(t)
	repo := repository.NewFoodRepository(conn)
	bucket := testutil.NewMemoryStorage("foods")
	hub := feed.NewHub()
	svc := NewFoodService(repo, NewFileService(bucket, "foods"), NewFoodImageResolver(bucket), hub, 200, 7)

	return &foodFixture{
		svc:    svc,
		repo:   repo,
		bucket: bucket,
		hub:    hub,
		user:   testutil.CreateUser(t, conn, "ana@example.com"),
	}
}

func TestFoodService_CreateWithoutImage(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()
	sub := f.hub.Subscribe(f.user.ID)

	food, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "  Pancakes ", Meal: "Breakfast", Date: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", food.Name)
	assert.Nil(t, food.ImageRef)
	assert.Empty(t, f.bucket.Paths())

	ev := <-sub.C
	assert.Equal(t, feed.KindCreated, ev.Kind)
	assert.Equal(t, food.ID, ev.FoodID)

	page, err := f.svc.List(ctx, f.user.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, FoodPlaceholder, page.Items[0].ImageURL)
}

func TestFoodService_CreateWithImage(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	img := &Image{File: bytes.NewReader([]byte("png")), ContentType: "image/png"}
	food, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "Salad", Meal: "Lunch", Date: "2025-01-02", Image: img})
	require.NoError(t, err)
	require.NotNil(t, food.ImageRef)
	assert.Regexp(t, `^`+f.user.ID+`/food-\d+\.png$`, *food.ImageRef)
	assert.Equal(t, []string{*food.ImageRef}, f.bucket.Paths())
	assert.Equal(t, "image/png", f.bucket.ContentType(*food.ImageRef))

	got, err := f.svc.ByID(ctx, f.user.ID, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/foods/"+*food.ImageRef, got.ImageURL)
}

func TestFoodService_CreateRejectsInvalidInput(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	tests := []FoodForm{
		{Name: " ", Meal: "Breakfast", Date: "2025-01-01"},
		{Name: "Toast", Meal: "", Date: "2025-01-01"},
		{Name: "Toast", Meal: "Brunch", Date: "2025-01-01"},
		{Name: "Toast", Meal: "Breakfast", Date: ""},
	}
	for _, form := range tests {
		_, err := f.svc.Create(ctx, f.user.ID, form)
		var inputErr *InputError
		assert.True(t, errors.As(err, &inputErr), "form %+v", form)
	}

	stored, err := f.repo.Recent(ctx, f.user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestFoodService_UpdateKeepsImageWithoutUpload(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	img := &Image{File: bytes.NewReader([]byte("jpg")), ContentType: "image/jpeg"}
	food, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "Soup", Meal: "Dinner", Date: "2025-01-02", Image: img})
	require.NoError(t, err)
	original := *food.ImageRef

	updated, err := f.svc.Update(ctx, f.user.ID, food.ID, FoodForm{Name: "Tomato soup", Meal: "Dinner", Date: "2025-01-03"})
	require.NoError(t, err)
	assert.Equal(t, "Tomato soup", updated.Name)
	require.NotNil(t, updated.ImageRef)
	assert.Equal(t, original, *updated.ImageRef)

	img = &Image{File: bytes.NewReader([]byte("jpg")), ContentType: "image/jpeg"}
	updated, err = f.svc.Update(ctx, f.user.ID, food.ID, FoodForm{Name: "Tomato soup", Meal: "Dinner", Date: "2025-01-03", Image: img})
	require.NoError(t, err)
	assert.Regexp(t, `^user-`+f.user.ID+`/`+food.ID+`-\d+\.jpg$`, *updated.ImageRef)
}

func TestFoodService_UpdateForeignEntryIsNotFound(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	food, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "Soup", Meal: "Dinner", Date: "2025-01-02"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "someone-else", food.ID, FoodForm{Name: "Mine now", Meal: "Dinner", Date: "2025-01-02"})
	assert.ErrorIs(t, err, ErrFoodNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "someone-else", food.ID), ErrFoodNotFound)
}

func TestFoodService_ListFiltersAndPaginates(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	for i := 1; i <= 9; i++ {
		_, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: fmt.Sprintf("Pancakes %d", i), Meal: "Breakfast", Date: fmt.Sprintf("2025-01-%02d", i)})
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "Salad", Meal: "Lunch", Date: "2025-01-20"})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, f.user.ID, "pancakes", 2)
	require.NoError(t, err)
	assert.Equal(t, 9, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Pancakes 2", page.Items[0].Name)
	assert.Equal(t, "Pancakes 1", page.Items[1].Name)

	first, err := f.svc.List(ctx, f.user.ID, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "Salad", first.Items[0].Name)
}

func TestFoodService_DeleteRemovesFromNextFetch(t *testing.T) {
	f := newFoodFixture(t)
	ctx := context.Background()

	food, err := f.svc.Create(ctx, f.user.ID, FoodForm{Name: "Toast", Meal: "Breakfast", Date: "2025-01-01"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, f.user.ID, food.ID))

	page, err := f.svc.List(ctx, f.user.ID, "", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
}

type failingFoodRepo struct {
	repository.FoodRepository
}

func (failingFoodRepo) Create(context.Context, *model.Food) error {
	return errors.New("disk full")
}

func TestFoodService_CreateDiscardsUploadWhenRowWriteFails(t *testing.T) {
	bucket := testutil.NewMemoryStorage("foods")
	svc := NewFoodService(failingFoodRepo{}, NewFileService(bucket, "foods"), NewFoodImageResolver(bucket), nil, 200, 7)

	img := &Image{File: bytes.NewReader([]byte("png")), ContentType: "image/png"}
	_, err := svc.Create(context.Background(), "u1", FoodForm{Name: "Toast", Meal: "Breakfast", Date: "2025-01-01", Image: img})
	assert.Error(t, err)
	assert.Empty(t, bucket.Paths())
}
