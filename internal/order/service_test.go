package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"postavka-be/internal/event"
	"postavka-be/internal/product"
	"postavka-be/internal/supplier"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrder(ctx context.Context, userID, supplierID int64) (*Order, error) {
	args := m.Called(ctx, userID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetOrder(ctx context.Context, id int64) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetOrderByNumber(ctx context.Context, number uuid.UUID) (*Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetOrderWithItems(ctx context.Context, id int64) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) AddLineItems(ctx context.Context, orderID int64, items []LineItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockRepository) RemoveLineItems(ctx context.Context, orderID int64, productIDs []int64) error {
	args := m.Called(ctx, orderID, productIDs)
	return args.Error(0)
}

func (m *MockRepository) UpdateOrderStatus(ctx context.Context, id int64, status Status, comment *string, expectedPrior Status) (bool, error) {
	args := m.Called(ctx, id, status, comment, expectedPrior)
	return args.Bool(0), args.Error(1)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id int64) (*supplier.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByOGRN(ctx context.Context, ogrn string) (*supplier.Supplier, error) {
	args := m.Called(ctx, ogrn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supplier.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetCatalog(ctx context.Context, supplierID int64) ([]supplier.CatalogEntry, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]supplier.CatalogEntry), args.Error(1)
}

func (m *MockSupplierRepository) UpdateCatalogPrice(ctx context.Context, supplierID int64, productCode string, price int64) (int64, error) {
	args := m.Called(ctx, supplierID, productCode, price)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetTitles(ctx context.Context, ids []int64) (map[int64]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]string), args.Error(1)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, productID, available int64) (int64, error) {
	args := m.Called(ctx, productID, available)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, key string, evt event.OrderPlaced) error {
	args := m.Called(ctx, key, evt)
	return args.Error(0)
}

func newTestService() (*MockRepository, *MockSupplierRepository, *MockProductRepository, *MockPublisher, Service) {
	repo := new(MockRepository)
	supplierRepo := new(MockSupplierRepository)
	productRepo := new(MockProductRepository)
	publisher := new(MockPublisher)
	svc := NewService(repo, supplierRepo, productRepo, publisher)
	return repo, supplierRepo, productRepo, publisher, svc
}

// --- Tests ---

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, supplierRepo, _, _, svc := newTestService()
		supplierRepo.On("GetByID", ctx, int64(5)).Return(&supplier.Supplier{ID: 5, OGRN: "159317825"}, nil)
		repo.On("CreateOrder", ctx, int64(1), int64(5)).
			Return(&Order{ID: 10, Number: uuid.New(), Status: StatusForming, UserID: 1, SupplierID: 5}, nil)

		o, err := svc.CreateOrder(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, StatusForming, o.Status)
		repo.AssertExpectations(t)
	})

	t.Run("SupplierNotFound", func(t *testing.T) {
		repo, supplierRepo, _, _, svc := newTestService()
		supplierRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.CreateOrder(ctx, 1, 99)
		assert.ErrorIs(t, err, supplier.ErrSupplierNotFound)
		repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_SetNextStatus_NoOp(t *testing.T) {
	ctx := context.Background()
	repo, _, _, _, svc := newTestService()

	comment := "changed our mind"
	stored := &Order{ID: 1, Status: StatusCancelledByFactory, CancelComment: &comment}
	repo.On("GetOrder", ctx, int64(1)).Return(stored, nil)

	o, err := svc.SetNextStatus(ctx, 1, StatusCancelledByFactory, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelledByFactory, o.Status)
	assert.Equal(t, &comment, o.CancelComment)
	repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SetNextStatus_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		from, to Status
	}{
		{StatusForming, StatusPayed},
		{StatusForming, StatusSendToSupplier},
		{StatusForming, StatusCancelledByFactory},
		{StatusForming, StatusCancelledBySupplier},
		{StatusCreated, StatusInProcess},
		{StatusCreated, StatusCompleted},
		{StatusPayed, StatusCreated},
		{StatusPayed, StatusCancelledBySupplier},
		{StatusDelivered, StatusInDelivery},
		{StatusCompleted, StatusForming},
		{StatusCancelledByFactory, StatusCreated},
		{StatusCancelledBySupplier, StatusInProcess},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			repo, _, _, _, svc := newTestService()
			repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: tc.from}, nil)

			comment := "reason"
			_, err := svc.SetNextStatus(ctx, 1, tc.to, &comment)

			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.from, invalid.From)
			assert.Equal(t, tc.to, invalid.To)
			repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_SetNextStatus_CancelReason(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingComment", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCreated}, nil)

		_, err := svc.SetNextStatus(ctx, 1, StatusCancelledByFactory, nil)
		assert.ErrorIs(t, err, ErrMissingCancelReason)
	})

	t.Run("EmptyComment", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCreated}, nil)

		empty := ""
		_, err := svc.SetNextStatus(ctx, 1, StatusCancelledByFactory, &empty)
		assert.ErrorIs(t, err, ErrMissingCancelReason)
	})

	t.Run("SucceedsFromEveryCancellableStatus", func(t *testing.T) {
		for _, from := range []Status{StatusCreated, StatusPayed, StatusSendToSupplier, StatusInProcess} {
			repo, _, _, _, svc := newTestService()
			repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: from}, nil)
			comment := "factory cancelled"
			repo.On("UpdateOrderStatus", ctx, int64(1), StatusCancelledByFactory, &comment, from).Return(true, nil)

			o, err := svc.SetNextStatus(ctx, 1, StatusCancelledByFactory, &comment)
			require.NoError(t, err, string(from))
			assert.Equal(t, StatusCancelledByFactory, o.Status)
			assert.Equal(t, &comment, o.CancelComment)
		}
	})
}

func TestService_SetNextStatus_ClearsCommentOnProgress(t *testing.T) {
	ctx := context.Background()
	repo, _, _, _, svc := newTestService()

	stale := "left over from an earlier attempt"
	repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusInProcess, CancelComment: &stale}, nil)
	repo.On("UpdateOrderStatus", ctx, int64(1), StatusInDelivery, (*string)(nil), StatusInProcess).Return(true, nil)

	o, err := svc.SetNextStatus(ctx, 1, StatusInDelivery, &stale)
	require.NoError(t, err)
	assert.Nil(t, o.CancelComment)
	repo.AssertExpectations(t)
}

func TestService_SetNextStatus_ConsistencyCheck(t *testing.T) {
	ctx := context.Background()
	items := []LineItem{
		{OrderID: 1, ProductID: 1, Amount: 10},
		{OrderID: 1, ProductID: 2, Amount: 20},
	}

	t.Run("BlocksOnUnsuppliedProduct", func(t *testing.T) {
		repo, supplierRepo, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5}, nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5, Items: items}, nil)
		supplierRepo.On("GetCatalog", ctx, int64(5)).Return([]supplier.CatalogEntry{
			{SupplierID: 5, ProductID: 1, ProductCode: "156562", Price: 15},
		}, nil)

		_, err := svc.SetNextStatus(ctx, 1, StatusCreated, nil)

		var unsupplied *UnsuppliedProductsError
		require.ErrorAs(t, err, &unsupplied)
		assert.Equal(t, []int64{2}, unsupplied.ProductIDs)
		repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PassesOnceCatalogComplete", func(t *testing.T) {
		repo, supplierRepo, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5}, nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5, Items: items}, nil)
		supplierRepo.On("GetCatalog", ctx, int64(5)).Return([]supplier.CatalogEntry{
			{SupplierID: 5, ProductID: 1, ProductCode: "156562", Price: 15},
			{SupplierID: 5, ProductID: 2, ProductCode: "1717846", Price: 11},
		}, nil)
		repo.On("UpdateOrderStatus", ctx, int64(1), StatusCreated, (*string)(nil), StatusForming).Return(true, nil)

		o, err := svc.SetNextStatus(ctx, 1, StatusCreated, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, o.Status)
	})

	t.Run("BlocksEmptyOrder", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5}, nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, SupplierID: 5}, nil)

		_, err := svc.SetNextStatus(ctx, 1, StatusCreated, nil)
		assert.ErrorIs(t, err, ErrNoItems)
	})
}

func TestService_SetNextStatus_StaleState(t *testing.T) {
	ctx := context.Background()
	repo, _, _, _, svc := newTestService()

	repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCreated}, nil)
	repo.On("UpdateOrderStatus", ctx, int64(1), StatusPayed, (*string)(nil), StatusCreated).Return(false, nil)

	_, err := svc.SetNextStatus(ctx, 1, StatusPayed, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

// casRepository applies status updates under a lock, like the conditional
// UPDATE in the SQL repository. readBarrier holds every reader until all
// have read, so concurrent writers decide on the same observed status.
type casRepository struct {
	MockRepository
	mu          sync.Mutex
	order       Order
	readBarrier *sync.WaitGroup
}

func (r *casRepository) GetOrder(ctx context.Context, id int64) (*Order, error) {
	r.mu.Lock()
	o := r.order
	r.mu.Unlock()

	if r.readBarrier != nil {
		r.readBarrier.Done()
		r.readBarrier.Wait()
	}
	return &o, nil
}

func (r *casRepository) UpdateOrderStatus(ctx context.Context, id int64, status Status, comment *string, expectedPrior Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.order.Status != expectedPrior {
		return false, nil
	}
	r.order.Status = status
	r.order.CancelComment = comment
	return true, nil
}

func TestService_SetNextStatus_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()

	number := uuid.New()
	var barrier sync.WaitGroup
	barrier.Add(2)
	repo := &casRepository{
		order:       Order{ID: 1, Number: number, Status: StatusCreated, SupplierID: 5},
		readBarrier: &barrier,
	}
	repo.On("GetOrderWithItems", ctx, int64(1)).
		Return(&Order{ID: 1, Number: number, Status: StatusCreated, SupplierID: 5, Items: []LineItem{{OrderID: 1, ProductID: 1, Amount: 1}}}, nil)

	supplierRepo := new(MockSupplierRepository)
	supplierRepo.On("GetByID", ctx, int64(5)).Return(&supplier.Supplier{ID: 5, OGRN: "159317825"}, nil)
	supplierRepo.On("GetCatalog", ctx, int64(5)).Return([]supplier.CatalogEntry{
		{SupplierID: 5, ProductID: 1, ProductCode: "156562", Price: 15},
	}, nil)

	productRepo := new(MockProductRepository)
	productRepo.On("GetTitles", ctx, []int64{1}).Return(map[int64]string{1: "Nails 100 mm"}, nil)

	publisher := new(MockPublisher)
	publisher.On("PublishOrderPlaced", mock.Anything, "159317825", mock.Anything).Return(nil)

	svc := NewService(repo, supplierRepo, productRepo, publisher)

	comment := "cancelled by purchasing"
	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.SetNextStatus(ctx, 1, StatusSendToSupplier, nil)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.SetNextStatus(ctx, 1, StatusCancelledByFactory, &comment)
		results <- err
	}()
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrStatusConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one writer must win")
	assert.Equal(t, 1, conflicts, "the loser must observe stale state")
}

func TestService_SetNextStatus_PublishesOrderPlaced(t *testing.T) {
	ctx := context.Background()
	number := uuid.New()

	full := &Order{ID: 1, Number: number, Status: StatusCreated, SupplierID: 5, Items: []LineItem{
		{OrderID: 1, ProductID: 1, Amount: 10},
		{OrderID: 1, ProductID: 2, Amount: 20},
	}}
	catalog := []supplier.CatalogEntry{
		{SupplierID: 5, ProductID: 1, ProductCode: "156562", Price: 15},
		{SupplierID: 5, ProductID: 2, ProductCode: "1717846", Price: 11},
	}

	t.Run("Success", func(t *testing.T) {
		repo, supplierRepo, productRepo, publisher, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Number: number, Status: StatusCreated, SupplierID: 5}, nil)
		repo.On("UpdateOrderStatus", ctx, int64(1), StatusSendToSupplier, (*string)(nil), StatusCreated).Return(true, nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(full, nil)
		supplierRepo.On("GetByID", ctx, int64(5)).Return(&supplier.Supplier{ID: 5, OGRN: "159317825"}, nil)
		supplierRepo.On("GetCatalog", ctx, int64(5)).Return(catalog, nil)
		productRepo.On("GetTitles", ctx, []int64{1, 2}).
			Return(map[int64]string{1: "Nails 100 mm", 2: "Nails 50 mm"}, nil)

		var published event.OrderPlaced
		publisher.On("PublishOrderPlaced", mock.Anything, "159317825", mock.Anything).
			Run(func(args mock.Arguments) {
				published = args.Get(2).(event.OrderPlaced)
			}).
			Return(nil)

		o, err := svc.SetNextStatus(ctx, 1, StatusSendToSupplier, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusSendToSupplier, o.Status)

		require.NotNil(t, published.NewOrder)
		assert.Equal(t, event.MessageNewOrder, published.EventType)
		assert.Equal(t, number, published.OrderNumber)
		assert.Equal(t, int64(370), published.NewOrder.TotalCost)
		require.Len(t, published.NewOrder.Products, 2)
		assert.Equal(t, int64(150), published.NewOrder.Products[0].TotalCost)
		assert.Equal(t, int64(220), published.NewOrder.Products[1].TotalCost)
	})

	t.Run("PublishFailureAfterCommit", func(t *testing.T) {
		repo, supplierRepo, productRepo, publisher, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Number: number, Status: StatusCreated, SupplierID: 5}, nil)
		repo.On("UpdateOrderStatus", ctx, int64(1), StatusSendToSupplier, (*string)(nil), StatusCreated).Return(true, nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(full, nil)
		supplierRepo.On("GetByID", ctx, int64(5)).Return(&supplier.Supplier{ID: 5, OGRN: "159317825"}, nil)
		supplierRepo.On("GetCatalog", ctx, int64(5)).Return(catalog, nil)
		productRepo.On("GetTitles", ctx, []int64{1, 2}).
			Return(map[int64]string{1: "Nails 100 mm", 2: "Nails 50 mm"}, nil)
		publisher.On("PublishOrderPlaced", mock.Anything, "159317825", mock.Anything).
			Return(errors.New("broker unavailable"))

		o, err := svc.SetNextStatus(ctx, 1, StatusSendToSupplier, nil)

		var pubErr *PublishError
		require.ErrorAs(t, err, &pubErr)
		// Status is committed even though the supplier was not notified.
		require.NotNil(t, o)
		assert.Equal(t, StatusSendToSupplier, o.Status)
		assert.Equal(t, o, pubErr.Order)
	})

	t.Run("NoPublishOnOtherTransitions", func(t *testing.T) {
		repo, _, _, publisher, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCreated}, nil)
		repo.On("UpdateOrderStatus", ctx, int64(1), StatusPayed, (*string)(nil), StatusCreated).Return(true, nil)

		_, err := svc.SetNextStatus(ctx, 1, StatusPayed, nil)
		require.NoError(t, err)
		publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ApplySupplierStatus(t *testing.T) {
	ctx := context.Background()
	number := uuid.New()

	t.Run("MapsExternalVocabulary", func(t *testing.T) {
		cases := []struct {
			external event.SupplierStatus
			from     Status
			to       Status
		}{
			{event.SupplierStatusInProgress, StatusSendToSupplier, StatusInProcess},
			{event.SupplierStatusInDelivery, StatusInProcess, StatusInDelivery},
			{event.SupplierStatusDelivered, StatusInDelivery, StatusDelivered},
		}

		for _, tc := range cases {
			repo, _, _, _, svc := newTestService()
			repo.On("GetOrderByNumber", ctx, number).Return(&Order{ID: 1, Number: number, Status: tc.from}, nil)
			repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Number: number, Status: tc.from}, nil)
			repo.On("UpdateOrderStatus", ctx, int64(1), tc.to, (*string)(nil), tc.from).Return(true, nil)

			err := svc.ApplySupplierStatus(ctx, event.SupplierOrderStatusUpdate{OrderNumber: number, Status: tc.external})
			require.NoError(t, err, string(tc.external))
			repo.AssertExpectations(t)
		}
	})

	t.Run("CanceledMapsToCancelledBySupplier", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		comment := "supplier out of stock"
		repo.On("GetOrderByNumber", ctx, number).Return(&Order{ID: 1, Number: number, Status: StatusInProcess}, nil)
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Number: number, Status: StatusInProcess}, nil)
		repo.On("UpdateOrderStatus", ctx, int64(1), StatusCancelledBySupplier, &comment, StatusInProcess).Return(true, nil)

		err := svc.ApplySupplierStatus(ctx, event.SupplierOrderStatusUpdate{
			OrderNumber:   number,
			Status:        event.SupplierStatusCanceled,
			CancelComment: &comment,
		})
		require.NoError(t, err)
	})

	t.Run("UnknownOrderNumber", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrderByNumber", ctx, number).Return(nil, nil)

		err := svc.ApplySupplierStatus(ctx, event.SupplierOrderStatusUpdate{OrderNumber: number, Status: event.SupplierStatusDelivered})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_LineItems(t *testing.T) {
	ctx := context.Background()

	t.Run("AddRejectsNonFormingOrder", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCreated}, nil)

		_, err := svc.AddLineItems(ctx, 1, []LineItemInput{{ProductID: 1, Amount: 5}})
		assert.ErrorIs(t, err, ErrOrderNotForming)
	})

	t.Run("AddRejectsZeroAmount", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming}, nil)

		_, err := svc.AddLineItems(ctx, 1, []LineItemInput{{ProductID: 1, Amount: 0}})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("AddSuccess", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming}, nil)
		items := []LineItem{{OrderID: 1, ProductID: 1, Amount: 5}}
		repo.On("AddLineItems", ctx, int64(1), items).Return(nil)
		repo.On("GetOrderWithItems", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusForming, Items: items}, nil)

		o, err := svc.AddLineItems(ctx, 1, []LineItemInput{{ProductID: 1, Amount: 5}})
		require.NoError(t, err)
		assert.Len(t, o.Items, 1)
	})

	t.Run("RemoveRejectsNonFormingOrder", func(t *testing.T) {
		repo, _, _, _, svc := newTestService()
		repo.On("GetOrder", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusSendToSupplier}, nil)

		_, err := svc.RemoveLineItems(ctx, 1, []int64{1})
		assert.ErrorIs(t, err, ErrOrderNotForming)
	})
}
