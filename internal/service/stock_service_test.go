package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/messaging"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// deadCacheRepo returns a cache repository backed by a client with no
// server behind it; the service tolerates cache failures
func deadCacheRepo() *cache.RedisRepository {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return cache.NewRedisRepository(client, logger.NewNop(), 0)
}

type fakeStockRepo struct {
	created *domain.StockTransaction
	product *domain.Product
	err     error
}

func (f *fakeStockRepo) Create(ctx context.Context, t *domain.StockTransaction) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	t.ID = 100
	f.created = t
	return f.product, nil
}

func (f *fakeStockRepo) GetByID(ctx context.Context, id int) (*domain.StockTransaction, error) {
	return f.created, nil
}

func (f *fakeStockRepo) List(ctx context.Context, filter repository.StockFilter) ([]*domain.StockTransaction, error) {
	return nil, nil
}

func (f *fakeStockRepo) Count(ctx context.Context, filter repository.StockFilter) (int, error) {
	return 0, nil
}

type fakeProductRepo struct {
	product  *domain.Product
	lowStock []domain.LowStockItem
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domain.Product) error { return nil }
func (f *fakeProductRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	if f.product != nil && f.product.ID == id {
		return f.product, nil
	}
	return nil, nil
}
func (f *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error      { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id int) error                 { return nil }
func (f *fakeProductRepo) SetStatus(ctx context.Context, id int, status bool) error { return nil }
func (f *fakeProductRepo) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Count(ctx context.Context, filter repository.ListFilter) (int, error) {
	return 0, nil
}
func (f *fakeProductRepo) GetIngredients(ctx context.Context, productID int) ([]domain.ProductIngredient, error) {
	return nil, nil
}
func (f *fakeProductRepo) ReplaceIngredients(ctx context.Context, productID int, rows []domain.CompositionRow) error {
	return nil
}
func (f *fakeProductRepo) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	return f.lowStock, nil
}

type fakePublisher struct {
	stockEvents    []*messaging.StockEvent
	lowStockEvents []*messaging.LowStockEvent
	err            error
}

func (f *fakePublisher) PublishStockChanged(ctx context.Context, event *messaging.StockEvent) error {
	if f.err != nil {
		return f.err
	}
	f.stockEvents = append(f.stockEvents, event)
	return nil
}

func (f *fakePublisher) PublishLowStock(ctx context.Context, event *messaging.LowStockEvent) error {
	if f.err != nil {
		return f.err
	}
	f.lowStockEvents = append(f.lowStockEvents, event)
	return nil
}

func TestStockServiceCreatePublishesStockEvent(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Flour", Quantity: 40, ReorderLevel: 20, UnitName: "Kilogram"}
	stockRepo := &fakeStockRepo{product: product}
	publisher := &fakePublisher{}

	svc := NewStockService(stockRepo, &fakeProductRepo{product: product}, deadCacheRepo(), publisher, logger.NewNop())

	tx, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 1,
		Type:      domain.StockIn,
		Quantity:  10,
	}, 7)
	if err != nil {
		t.Fatalf("create stock transaction: %v", err)
	}
	if tx.ID != 100 || tx.ProductName != "Flour" || tx.CreatedBy != 7 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	if len(publisher.stockEvents) != 1 {
		t.Fatalf("expected one stock event, got %d", len(publisher.stockEvents))
	}
	event := publisher.stockEvents[0]
	if event.Type != messaging.EventTypeStockIn || event.NewQuantity != 40 {
		t.Fatalf("unexpected stock event: %+v", event)
	}

	// Quantity above the reorder level; no low stock alert
	if len(publisher.lowStockEvents) != 0 {
		t.Fatalf("low stock event not expected: %+v", publisher.lowStockEvents)
	}
}

func TestStockServiceCreateEmitsLowStockEvent(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Flour", Quantity: 15, ReorderLevel: 20, UnitName: "Kilogram"}
	stockRepo := &fakeStockRepo{product: product}
	publisher := &fakePublisher{}

	svc := NewStockService(stockRepo, &fakeProductRepo{product: product}, deadCacheRepo(), publisher, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 1,
		Type:      domain.StockOut,
		Quantity:  5,
	}, 7)
	if err != nil {
		t.Fatalf("create stock transaction: %v", err)
	}

	if len(publisher.lowStockEvents) != 1 {
		t.Fatalf("expected a low stock event, got %d", len(publisher.lowStockEvents))
	}
	event := publisher.lowStockEvents[0]
	if event.ProductID != 1 || event.Quantity != 15 || event.ReorderLevel != 20 {
		t.Fatalf("unexpected low stock event: %+v", event)
	}
}

func TestStockServiceCreatePublishFailureTolerated(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Flour", Quantity: 40, ReorderLevel: 20}
	stockRepo := &fakeStockRepo{product: product}
	publisher := &fakePublisher{err: errors.New("kafka unavailable")}

	svc := NewStockService(stockRepo, &fakeProductRepo{product: product}, deadCacheRepo(), publisher, logger.NewNop())

	if _, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 1,
		Type:      domain.StockIn,
		Quantity:  10,
	}, 7); err != nil {
		t.Fatalf("publish failure must not fail the committed transaction: %v", err)
	}
}

func TestStockServiceCreateUnknownProduct(t *testing.T) {
	svc := NewStockService(&fakeStockRepo{}, &fakeProductRepo{}, deadCacheRepo(), &fakePublisher{}, logger.NewNop())

	_, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 99,
		Type:      domain.StockIn,
		Quantity:  10,
	}, 7)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStockServiceCreateRequiresPositiveQuantity(t *testing.T) {
	product := &domain.Product{ID: 1, Name: "Flour", Quantity: 40, ReorderLevel: 20}
	svc := NewStockService(&fakeStockRepo{product: product}, &fakeProductRepo{product: product}, deadCacheRepo(), &fakePublisher{}, logger.NewNop())

	if _, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 1,
		Type:      domain.StockOut,
		Quantity:  -3,
	}, 7); err == nil {
		t.Fatalf("negative quantity should be rejected for in/out operations")
	}

	// Adjustments carry their sign and may be negative
	if _, err := svc.Create(context.Background(), domain.StockTransactionCreateRequest{
		ProductID: 1,
		Type:      domain.StockAdjustment,
		Quantity:  -3,
	}, 7); err != nil {
		t.Fatalf("negative adjustment should be allowed: %v", err)
	}
}

func TestStockServiceLowStockFallsBackToRepository(t *testing.T) {
	items := []domain.LowStockItem{{ProductID: 1, Name: "Flour", Quantity: 5, ReorderLevel: 20}}
	svc := NewStockService(&fakeStockRepo{}, &fakeProductRepo{lowStock: items}, deadCacheRepo(), &fakePublisher{}, logger.NewNop())

	got, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Flour" {
		t.Fatalf("unexpected low stock items: %+v", got)
	}
}
