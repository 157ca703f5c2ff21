package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yoshii-hideaki/mikan-order/internal/domain"
	"github.com/yoshii-hideaki/mikan-order/internal/mocks"
	"github.com/yoshii-hideaki/mikan-order/internal/pricing"
	"github.com/yoshii-hideaki/mikan-order/internal/service"
	"github.com/yoshii-hideaki/mikan-order/internal/storage"
)

var (
	beer = domain.MenuItem{ID: 1, Name: "Draft Beer", Price: 700, Category: domain.CategoryAlcoholic}
	cola = domain.MenuItem{ID: 2, Name: "Cola", Price: 500, Category: domain.CategorySoft}
)

type orderFixture struct {
	repo   *mocks.OrderRepository
	menu   *mocks.MenuRepository
	qr     *mocks.QRGenerator
	cache  *mocks.BoardCache
	events *mocks.EventPublisher
	svc    *service.OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		repo:   new(mocks.OrderRepository),
		menu:   new(mocks.MenuRepository),
		qr:     new(mocks.QRGenerator),
		cache:  new(mocks.BoardCache),
		events: new(mocks.EventPublisher),
	}
	f.svc = service.NewOrderService(
		f.repo, f.menu,
		pricing.FlatRate{Table: pricing.DefaultTable()},
		f.qr, f.cache, f.events,
		domain.StatusInProgress,
	)
	return f
}

func (f *orderFixture) expectMutationSideEffects() {
	f.cache.On("Invalidate", mock.Anything).Return(nil)
	f.events.On("PublishOrderEvent", mock.Anything, mock.AnythingOfType("domain.OrderEvent")).Return(nil)
}

func TestOrderCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.OrderLine
		wantErr error
	}{
		{
			name:    "empty item list",
			lines:   nil,
			wantErr: service.ErrEmptyOrder,
		},
		{
			name:    "zero quantity",
			lines:   []domain.OrderLine{{MenuItemID: 1, Quantity: 0}},
			wantErr: service.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			lines:   []domain.OrderLine{{MenuItemID: 1, Quantity: -2}},
			wantErr: service.ErrInvalidQuantity,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture()

			order, err := f.svc.Create(context.Background(), "", testCase.lines)

			assert.ErrorIs(t, err, testCase.wantErr)
			assert.Nil(t, order)
			f.repo.AssertNotCalled(t, "CreateOrder", mock.Anything)
		})
	}
}

func TestOrderCreateUnknownMenuItem(t *testing.T) {
	f := newOrderFixture()
	f.menu.On("GetMenuItem", 99).Return(nil, storage.ErrNotFound).Once()

	order, err := f.svc.Create(context.Background(), "", []domain.OrderLine{{MenuItemID: 99, Quantity: 1}})

	assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
	assert.Nil(t, order)
	f.repo.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestOrderCreateComputesTotalServerSide(t *testing.T) {
	f := newOrderFixture()
	f.menu.On("GetMenuItem", beer.ID).Return(&beer, nil).Once()
	f.menu.On("GetMenuItem", cola.ID).Return(&cola, nil).Once()
	f.repo.On("NextOrderNumber").Return(int64(7), nil).Once()
	f.repo.On("CreateOrder", mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Order).ID = 10
		}).
		Return(nil).Once()
	f.qr.On("Generate", 10).Return([]byte("qr"), nil).Once()
	f.repo.On("SaveQRCode", 10, []byte("qr")).Return(nil).Once()
	f.expectMutationSideEffects()

	order, err := f.svc.Create(context.Background(), "", []domain.OrderLine{
		{MenuItemID: beer.ID, Quantity: 2},
		{MenuItemID: cola.ID, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, "#7", order.OrderNumber)
	assert.Equal(t, domain.StatusInProgress, order.Status)
	// 3 pooled units under flat tiers, unit prices snapshotted per line.
	assert.Equal(t, int64(1500), order.TotalAmount)
	assert.Equal(t, int64(700), order.Items[0].UnitPrice)
	f.repo.AssertExpectations(t)
	f.menu.AssertExpectations(t)
}

func TestOrderCreateKeepsCallerNumber(t *testing.T) {
	f := newOrderFixture()
	f.menu.On("GetMenuItem", beer.ID).Return(&beer, nil).Once()
	f.repo.On("CreateOrder", mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	f.qr.On("Generate", mock.Anything).Return([]byte("qr"), nil)
	f.repo.On("SaveQRCode", mock.Anything, mock.Anything).Return(nil)
	f.expectMutationSideEffects()

	order, err := f.svc.Create(context.Background(), "#500", []domain.OrderLine{{MenuItemID: beer.ID, Quantity: 1}})

	assert.NoError(t, err)
	assert.Equal(t, "#500", order.OrderNumber)
	f.repo.AssertNotCalled(t, "NextOrderNumber")
}

func TestOrderCreateDuplicateNumber(t *testing.T) {
	f := newOrderFixture()
	f.menu.On("GetMenuItem", beer.ID).Return(&beer, nil).Once()
	f.repo.On("CreateOrder", mock.AnythingOfType("*domain.Order")).Return(storage.ErrDuplicateOrderNumber).Once()

	order, err := f.svc.Create(context.Background(), "#500", []domain.OrderLine{{MenuItemID: beer.ID, Quantity: 1}})

	assert.ErrorIs(t, err, service.ErrDuplicateOrderNumber)
	assert.Nil(t, order)
	f.events.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr error
	}{
		{name: "new to in_progress", from: domain.StatusNew, to: domain.StatusInProgress},
		{name: "in_progress to ready", from: domain.StatusInProgress, to: domain.StatusReady},
		{name: "ready is terminal", from: domain.StatusReady, to: domain.StatusInProgress, wantErr: service.ErrInvalidTransition},
		{name: "no skipping", from: domain.StatusNew, to: domain.StatusReady, wantErr: service.ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusNew, to: "cancelled", wantErr: service.ErrInvalidStatus},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture()
			stored := &domain.Order{ID: 10, OrderNumber: "#1", Status: testCase.from}
			f.repo.On("GetOrder", 10).Return(stored, nil)

			if testCase.wantErr == nil {
				f.repo.On("UpdateOrderStatus", 10, testCase.to).Return(nil).Once()
				f.expectMutationSideEffects()
			}

			_, err := f.svc.UpdateStatus(context.Background(), 10, testCase.to)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				f.repo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderEditReplacesItems(t *testing.T) {
	f := newOrderFixture()
	current := &domain.Order{
		ID: 10, OrderNumber: "#1", Status: domain.StatusInProgress, TotalAmount: 700,
		Items: []domain.OrderItem{{MenuItemID: beer.ID, Quantity: 1, UnitPrice: 700}},
	}
	edited := &domain.Order{
		ID: 10, OrderNumber: "#1", Status: domain.StatusInProgress, TotalAmount: 1200,
		Items: []domain.OrderItem{{MenuItemID: cola.ID, Quantity: 2, UnitPrice: 500}},
	}
	f.repo.On("GetOrder", 10).Return(current, nil).Once()
	f.menu.On("GetMenuItem", cola.ID).Return(&cola, nil).Once()
	f.repo.On("ReplaceOrder", mock.MatchedBy(func(o *domain.Order) bool {
		return o.ID == 10 &&
			len(o.Items) == 1 &&
			o.Items[0].MenuItemID == cola.ID &&
			o.TotalAmount == 1200 // price(B) under flat tiers, regardless of price(A)
	})).Return(nil).Once()
	f.repo.On("GetOrder", 10).Return(edited, nil).Once()
	f.expectMutationSideEffects()

	order, err := f.svc.Edit(context.Background(), 10, "", "", []domain.OrderLine{{MenuItemID: cola.ID, Quantity: 2}})

	assert.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, cola.ID, order.Items[0].MenuItemID)
	f.repo.AssertExpectations(t)
}

func TestOrderEditRejectedWhenReady(t *testing.T) {
	f := newOrderFixture()
	f.repo.On("GetOrder", 10).Return(&domain.Order{ID: 10, Status: domain.StatusReady}, nil).Once()

	_, err := f.svc.Edit(context.Background(), 10, "", "", []domain.OrderLine{{MenuItemID: beer.ID, Quantity: 1}})

	assert.ErrorIs(t, err, service.ErrOrderNotEditable)
	f.repo.AssertNotCalled(t, "ReplaceOrder", mock.Anything)
}

func TestOrderEditRejectsEmptyReplacement(t *testing.T) {
	f := newOrderFixture()
	f.repo.On("GetOrder", 10).Return(&domain.Order{ID: 10, Status: domain.StatusInProgress}, nil).Once()

	_, err := f.svc.Edit(context.Background(), 10, "", "", nil)

	assert.ErrorIs(t, err, service.ErrEmptyOrder)
	f.repo.AssertNotCalled(t, "ReplaceOrder", mock.Anything)
}

func TestOrderDelete(t *testing.T) {
	f := newOrderFixture()
	f.repo.On("GetOrder", 10).Return(&domain.Order{ID: 10, OrderNumber: "#1", Status: domain.StatusReady}, nil).Once()
	f.repo.On("DeleteOrder", 10).Return(int64(1), nil).Once()
	f.expectMutationSideEffects()

	err := f.svc.Delete(context.Background(), 10)

	assert.NoError(t, err)
	f.events.AssertCalled(t, "PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderDeleted && e.OrderID == 10
	}))
}

func TestOrderDeleteNotFound(t *testing.T) {
	f := newOrderFixture()
	f.repo.On("GetOrder", 99).Return(nil, storage.ErrNotFound).Once()

	err := f.svc.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, service.ErrOrderNotFound)
	f.repo.AssertNotCalled(t, "DeleteOrder", mock.Anything)
}

func TestKitchenBoardUsesCache(t *testing.T) {
	f := newOrderFixture()
	cached := []domain.Order{{ID: 10, OrderNumber: "#1"}}
	f.cache.On("Board", mock.Anything).Return(cached, true, nil).Once()

	orders, err := f.svc.KitchenBoard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, orders)
	f.repo.AssertNotCalled(t, "ListOrders", mock.Anything)
}

func TestKitchenBoardFallsBackToStore(t *testing.T) {
	f := newOrderFixture()
	stored := []domain.Order{{ID: 10, OrderNumber: "#1"}}
	f.cache.On("Board", mock.Anything).Return(nil, false, nil).Once()
	f.repo.On("ListOrders", true).Return(stored, nil).Once()
	f.cache.On("SetBoard", mock.Anything, stored).Return(nil).Once()

	orders, err := f.svc.KitchenBoard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, stored, orders)
	f.cache.AssertExpectations(t)
}

func TestMenuCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		item    domain.MenuItem
		wantErr error
	}{
		{
			name:    "missing name",
			item:    domain.MenuItem{Price: 700, Category: domain.CategoryAlcoholic},
			wantErr: service.ErrMenuItemName,
		},
		{
			name:    "negative price",
			item:    domain.MenuItem{Name: "Beer", Price: -1, Category: domain.CategoryAlcoholic},
			wantErr: service.ErrMenuItemPrice,
		},
		{
			name:    "unknown category",
			item:    domain.MenuItem{Name: "Beer", Price: 700, Category: "snacks"},
			wantErr: service.ErrMenuItemCategory,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := new(mocks.MenuRepository)
			svc := service.NewMenuService(repo)

			err := svc.Create(&testCase.item)

			assert.ErrorIs(t, err, testCase.wantErr)
			repo.AssertNotCalled(t, "CreateMenuItem", mock.Anything)
		})
	}
}

func TestMenuSeedOnlyWhenEmpty(t *testing.T) {
	repo := new(mocks.MenuRepository)
	repo.On("CountMenuItems").Return(4, nil).Once()
	svc := service.NewMenuService(repo)

	assert.NoError(t, svc.SeedDefaults())
	repo.AssertNotCalled(t, "CreateMenuItem", mock.Anything)

	empty := new(mocks.MenuRepository)
	empty.On("CountMenuItems").Return(0, nil).Once()
	empty.On("CreateMenuItem", mock.AnythingOfType("*domain.MenuItem")).Return(nil)

	assert.NoError(t, service.NewMenuService(empty).SeedDefaults())
	empty.AssertCalled(t, "CreateMenuItem", mock.AnythingOfType("*domain.MenuItem"))
}
