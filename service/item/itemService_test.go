package itemsvc_test

import (
	"context"
	"testing"

	"github.com/alfifrr/werent-backend-sub000/model"
	itemsvc "github.com/alfifrr/werent-backend-sub000/service/item"
)

type repoMock struct {
	createFn func(ctx context.Context, it *model.Item) (int64, error)
	byIDFn   func(ctx context.Context, id int64) (*model.Item, error)
	listFn   func(ctx context.Context, category string) ([]model.Item, error)
	updateFn func(ctx context.Context, it *model.Item) error
	deleteFn func(ctx context.Context, id int64) error
}

func (m *repoMock) Create(ctx context.Context, it *model.Item) (int64, error) {
	return m.createFn(ctx, it)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Item, error) {
	return m.byIDFn(ctx, id)
}
func (m *repoMock) List(ctx context.Context, category string) ([]model.Item, error) {
	return m.listFn(ctx, category)
}
func (m *repoMock) Update(ctx context.Context, it *model.Item) error { return m.updateFn(ctx, it) }
func (m *repoMock) Delete(ctx context.Context, id int64) error       { return m.deleteFn(ctx, id) }

type usersMock struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *usersMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return &model.User{ID: id}, nil
	}
	return m.byIDFn(ctx, id)
}

func TestCreate_Validation(t *testing.T) {
	s := itemsvc.New(&repoMock{}, &usersMock{})

	if _, err := s.Create(context.Background(), 1, model.Item{Category: "dress", PricePerDay: 10}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := s.Create(context.Background(), 1, model.Item{Title: "Gown", PricePerDay: 10}); err == nil {
		t.Fatal("expected error for empty category")
	}
	if _, err := s.Create(context.Background(), 1, model.Item{Title: "Gown", Category: "dress", PricePerDay: -1}); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestCreate_SetsOwner(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, it *model.Item) (int64, error) {
			if it.OwnerID != 7 {
				t.Fatalf("owner = %d; want 7", it.OwnerID)
			}
			return 42, nil
		},
		byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
			return &model.Item{ID: id, OwnerID: 7, Title: "Gown", Category: "dress"}, nil
		},
	}
	s := itemsvc.New(m, &usersMock{})

	it, err := s.Create(context.Background(), 7, model.Item{Title: "Gown", Category: "dress", PricePerDay: 10, Quantity: 2})
	if err != nil || it.ID != 42 {
		t.Fatalf("got it=%v err=%v; want id 42", it, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	m := &repoMock{byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
		return nil, nil
	}}
	s := itemsvc.New(m, &usersMock{})

	_, err := s.Get(context.Background(), 99)
	if itemsvc.Code(err) != itemsvc.ErrNotFound {
		t.Fatalf("code = %q; want NOT_FOUND", itemsvc.Code(err))
	}
}

func TestUpdate_OwnerOrAdminOnly(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
			return &model.Item{ID: id, OwnerID: 7, Title: "Gown", Category: "dress"}, nil
		},
		updateFn: func(ctx context.Context, it *model.Item) error { return nil },
	}
	users := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := itemsvc.New(m, users)

	valid := model.Item{Title: "Gown", Category: "dress", PricePerDay: 12, Quantity: 2}

	if _, err := s.Update(context.Background(), 7, 1, valid); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if _, err := s.Update(context.Background(), 100, 1, valid); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if _, err := s.Update(context.Background(), 8, 1, valid); itemsvc.Code(err) != itemsvc.ErrForbidden {
		t.Fatalf("stranger update code = %q; want FORBIDDEN", itemsvc.Code(err))
	}
}

func TestDelete_Forbidden(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
			return &model.Item{ID: id, OwnerID: 7}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	users := &usersMock{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id}, nil
	}}
	s := itemsvc.New(m, users)

	if err := s.Delete(context.Background(), 8, 1); itemsvc.Code(err) != itemsvc.ErrForbidden {
		t.Fatalf("code = %q; want FORBIDDEN", itemsvc.Code(err))
	}
	if err := s.Delete(context.Background(), 7, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
