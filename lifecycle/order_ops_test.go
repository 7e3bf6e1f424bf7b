package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
)

// recordingEmitter captures published events for assertions.
type recordingEmitter struct {
	mu        sync.Mutex
	published []recorded
}

type recorded struct {
	eventType string
	payload   interface{}
}

func (r *recordingEmitter) Publish(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, recorded{eventType: eventType, payload: payload})
}

func (r *recordingEmitter) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.published {
		if ev.eventType == eventType {
			n++
		}
	}
	return n
}

func migrateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.AutoMigrate(
		&models.User{},
		&models.Menu{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.ServiceRequest{},
		&models.OrderStatusLog{},
		&models.DayCounter{},
	)
	require.NoError(t, err)
}

func setupOrderTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

// setupConcurrentTestDB uses a file-backed database so goroutines can
// genuinely contend for the write lock.
func setupConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "lifecycle.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	migrateAll(t, db)
	return db
}

func seedBasics(t *testing.T, db *gorm.DB) (pizza, lemonade models.Menu, chef, chef2 models.User) {
	t.Helper()
	pizza = models.Menu{Name: "Margherita Pizza", Price: 12.99, Available: true}
	lemonade = models.Menu{Name: "Lemonade", Price: 4.99, Available: true}
	require.NoError(t, db.Create(&pizza).Error)
	require.NoError(t, db.Create(&lemonade).Error)

	chef = models.User{Name: "Anna", Email: "anna@example.com", Role: models.RoleChef, Active: true}
	chef2 = models.User{Name: "Marco", Email: "marco@example.com", Role: models.RoleChef, Active: true}
	require.NoError(t, db.Create(&chef).Error)
	require.NoError(t, db.Create(&chef2).Error)

	require.NoError(t, db.Create(&models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable, Active: true}).Error)
	return
}

func placeOrder(t *testing.T, c *Coordinator, menuID uint) *models.Order {
	t.Helper()
	order, err := c.CreateOrder(context.Background(), CreateOrderInput{
		TableNumber: "T1",
		Items:       []NewItem{{MenuID: menuID, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

// assertOccupancyInvariant checks that the table is occupied exactly
// when a non-terminal order references it.
func assertOccupancyInvariant(t *testing.T, db *gorm.DB, tableNumber string) {
	t.Helper()
	var table models.Table
	require.NoError(t, db.Where("table_number = ?", tableNumber).First(&table).Error)
	var active int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("table_number = ? AND status IN ?", tableNumber, models.ActiveOrderStatuses()).
		Count(&active).Error)
	if active > 0 {
		assert.Equal(t, models.TableOccupied, table.Status, "table with %d active orders must be occupied", active)
	} else {
		assert.Equal(t, models.TableAvailable, table.Status, "table with no active orders must be available")
		assert.Nil(t, table.CurrentOrderID)
	}
}

func TestCreateOrderPricesAndOccupies(t *testing.T) {
	db := setupOrderTestDB(t, "create_order")
	pizza, lemonade, _, _ := seedBasics(t, db)
	emitter := &recordingEmitter{}
	c := NewCoordinator(db, emitter, nil)

	order, err := c.CreateOrder(context.Background(), CreateOrderInput{
		TableNumber: "T1",
		Items: []NewItem{
			{MenuID: pizza.ID, Quantity: 2},
			{MenuID: lemonade.ID, Quantity: 2, Notes: "no ice"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 35.96, order.Subtotal)
	assert.Equal(t, 3.60, order.Tax)
	assert.Equal(t, 1.80, order.ServiceCharge)
	assert.Equal(t, 41.36, order.TotalAmount)
	assert.Regexp(t, regexp.MustCompile(`^ORD\d{10}$`), order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Margherita Pizza", order.Items[0].MenuName)
	assert.Equal(t, 25.98, order.Items[0].ItemTotal)

	assertOccupancyInvariant(t, db, "T1")
	assert.Equal(t, 1, emitter.count(events.OrderCreated))
	assert.Equal(t, 1, emitter.count(events.TableOccupied))

	var history []models.OrderStatusLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, models.OrderPending, history[0].Status)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupOrderTestDB(t, "create_validation")
	pizza, _, _, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	_, err := c.CreateOrder(ctx, CreateOrderInput{TableNumber: "", Items: []NewItem{{MenuID: pizza.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T1", Items: []NewItem{{MenuID: pizza.ID, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T1", Items: []NewItem{{MenuID: 999, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T9", Items: []NewItem{{MenuID: pizza.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	offMenu := models.Menu{Name: "Seasonal Soup", Price: 6.50, Available: true}
	require.NoError(t, db.Create(&offMenu).Error)
	require.NoError(t, db.Model(&offMenu).Update("available", false).Error)
	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T1", Items: []NewItem{{MenuID: offMenu.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrderRefusesBlockedTable(t *testing.T) {
	db := setupOrderTestDB(t, "create_blocked_table")
	pizza, _, _, _ := seedBasics(t, db)
	require.NoError(t, db.Create(&models.Table{TableNumber: "T2", Status: models.TableMaintenance, Active: true}).Error)
	retired := models.Table{TableNumber: "T3", Status: models.TableAvailable, Active: true}
	require.NoError(t, db.Create(&retired).Error)
	require.NoError(t, db.Model(&retired).Update("active", false).Error)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	_, err := c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T2", Items: []NewItem{{MenuID: pizza.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrTableUnavailable)

	_, err = c.CreateOrder(ctx, CreateOrderInput{TableNumber: "T3", Items: []NewItem{{MenuID: pizza.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrTableUnavailable)

	// The failed placements must not leave orders behind.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSecondOrderOnOccupiedTable(t *testing.T) {
	db := setupOrderTestDB(t, "second_order")
	pizza, lemonade, _, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)

	first := placeOrder(t, c, pizza.ID)
	second := placeOrder(t, c, lemonade.ID)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)

	var table models.Table
	require.NoError(t, db.Where("table_number = ?", "T1").First(&table).Error)
	assert.Equal(t, models.TableOccupied, table.Status)
	require.NotNil(t, table.CurrentOrderID)
	assert.Equal(t, first.ID, *table.CurrentOrderID, "first binder keeps the pointer")
	assertOccupancyInvariant(t, db, "T1")
}

func TestConfirmAndAcceptFlow(t *testing.T) {
	db := setupOrderTestDB(t, "confirm_accept")
	pizza, _, chef, _ := seedBasics(t, db)
	emitter := &recordingEmitter{}
	c := NewCoordinator(db, emitter, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)

	confirmed, err := c.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	accepted, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, accepted.Status)
	require.NotNil(t, accepted.ChefID)
	assert.Equal(t, chef.ID, *accepted.ChefID)
	require.NotNil(t, accepted.ChefName)
	assert.Equal(t, "Anna", *accepted.ChefName)
	require.NotNil(t, accepted.PreparingAt)

	// Confirm is also optional: a fresh pending order can be accepted
	// directly.
	direct := placeOrder(t, c, pizza.ID)
	picked, err := c.Accept(ctx, direct.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, picked.Status)
}

func TestAcceptIdempotentForSameChef(t *testing.T) {
	db := setupOrderTestDB(t, "accept_idempotent")
	pizza, _, chef, _ := seedBasics(t, db)
	emitter := &recordingEmitter{}
	c := NewCoordinator(db, emitter, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	changed := emitter.count(events.OrderStatusChanged)

	again, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, again.Status)
	assert.Equal(t, changed, emitter.count(events.OrderStatusChanged), "retry must not re-emit")

	var history int64
	require.NoError(t, db.Model(&models.OrderStatusLog{}).
		Where("order_id = ? AND status = ?", order.ID, models.OrderPreparing).
		Count(&history).Error)
	assert.Equal(t, int64(1), history, "retry must not re-log")
}

func TestAcceptRefusedForSecondChef(t *testing.T) {
	db := setupOrderTestDB(t, "accept_second_chef")
	pizza, _, chef, chef2 := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)

	_, err = c.Accept(ctx, order.ID, chef2.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	var after models.Order
	require.NoError(t, db.First(&after, order.ID).Error)
	require.NotNil(t, after.ChefID)
	assert.Equal(t, chef.ID, *after.ChefID, "claim must not be overwritten")
}

func TestAcceptOnReadyOrderIsInvalid(t *testing.T) {
	db := setupOrderTestDB(t, "accept_on_ready")
	pizza, _, chef, chef2 := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)

	_, err = c.Accept(ctx, order.ID, chef2.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConcurrentAcceptSingleWinner(t *testing.T) {
	db := setupConcurrentTestDB(t)
	pizza, _, chef, chef2 := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)

	order := placeOrder(t, c, pizza.ID)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, staff := range []uint{chef.ID, chef2.ID} {
		wg.Add(1)
		go func(slot int, staffID uint) {
			defer wg.Done()
			_, errs[slot] = c.Accept(context.Background(), order.ID, staffID)
		}(i, staff)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyClaimed)
		}
	}
	assert.Equal(t, 1, winners, "exactly one accept must win")

	var after models.Order
	require.NoError(t, db.First(&after, order.ID).Error)
	assert.Equal(t, models.OrderPreparing, after.Status)
	require.NotNil(t, after.ChefID)
	if errs[0] == nil {
		assert.Equal(t, chef.ID, *after.ChefID)
	} else {
		assert.Equal(t, chef2.ID, *after.ChefID)
	}
}

func TestConcurrentCreateOrdersKeepInvariantAndDistinctNumbers(t *testing.T) {
	db := setupConcurrentTestDB(t)
	pizza, _, _, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)

	const n = 8
	var wg sync.WaitGroup
	orders := make([]*models.Order, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			orders[slot], errs[slot] = c.CreateOrder(context.Background(), CreateOrderInput{
				TableNumber: "T1",
				Items:       []NewItem{{MenuID: pizza.ID, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	numbers := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, numbers[orders[i].OrderNumber], "order number %s issued twice", orders[i].OrderNumber)
		numbers[orders[i].OrderNumber] = true
	}
	assertOccupancyInvariant(t, db, "T1")
}

func TestMarkReadyFlow(t *testing.T) {
	db := setupOrderTestDB(t, "mark_ready")
	pizza, _, chef, chef2 := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)

	// A chef who does not hold the claim cannot finish the order.
	_, err = c.MarkReady(ctx, order.ID, chef2.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	ready, err := c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, ready.Status)
	require.NotNil(t, ready.ReadyAt)
	require.NotNil(t, ready.PrepSeconds)
	assert.GreaterOrEqual(t, *ready.PrepSeconds, 0)

	// Retry by the holder returns the current state.
	again, err := c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, again.Status)

	// Not eligible before anyone accepted.
	fresh := placeOrder(t, c, pizza.ID)
	_, err = c.MarkReady(ctx, fresh.ID, chef.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteReleasesTable(t *testing.T) {
	db := setupOrderTestDB(t, "complete_release")
	pizza, _, chef, _ := seedBasics(t, db)
	emitter := &recordingEmitter{}
	c := NewCoordinator(db, emitter, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)

	done, err := c.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	require.NotNil(t, done.ServedAt)

	var table models.Table
	require.NoError(t, db.Where("table_number = ?", "T1").First(&table).Error)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentOrderID)
	assert.Nil(t, table.OccupiedAt)
	assert.Equal(t, 1, emitter.count(events.TableReleased))
	assertOccupancyInvariant(t, db, "T1")

	// Completing again neither errors nor re-emits.
	released := emitter.count(events.TableReleased)
	changed := emitter.count(events.OrderStatusChanged)
	_, err = c.Complete(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, released, emitter.count(events.TableReleased))
	assert.Equal(t, changed, emitter.count(events.OrderStatusChanged))
}

func TestCompleteKeepsTableWhileSiblingActive(t *testing.T) {
	db := setupOrderTestDB(t, "complete_sibling")
	pizza, lemonade, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	first := placeOrder(t, c, pizza.ID)
	second := placeOrder(t, c, lemonade.ID)

	_, err := c.Accept(ctx, first.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, first.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.Complete(ctx, first.ID)
	require.NoError(t, err)

	var table models.Table
	require.NoError(t, db.Where("table_number = ?", "T1").First(&table).Error)
	assert.Equal(t, models.TableOccupied, table.Status, "second order still active")
	assertOccupancyInvariant(t, db, "T1")

	_, err = c.Cancel(ctx, second.ID, nil)
	require.NoError(t, err)
	assertOccupancyInvariant(t, db, "T1")
}

func TestCancelAndRejectRules(t *testing.T) {
	db := setupOrderTestDB(t, "cancel_reject")
	pizza, _, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	// Customer cancel from pending.
	order := placeOrder(t, c, pizza.ID)
	cancelled, err := c.Cancel(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assertOccupancyInvariant(t, db, "T1")

	// Staff cancel from confirmed.
	order = placeOrder(t, c, pizza.ID)
	_, err = c.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = c.Cancel(ctx, order.ID, &chef.ID)
	require.NoError(t, err)

	// Cancelling a preparing order is illegal.
	order = placeOrder(t, c, pizza.ID)
	_, err = c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.Cancel(ctx, order.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Reject works from pending only.
	order2 := placeOrder(t, c, pizza.ID)
	rejected, err := c.Reject(ctx, order2.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)

	order3 := placeOrder(t, c, pizza.ID)
	_, err = c.Confirm(ctx, order3.ID)
	require.NoError(t, err)
	_, err = c.Reject(ctx, order3.ID, chef.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAddItemsRepricesFullList(t *testing.T) {
	db := setupOrderTestDB(t, "add_items")
	pizza, lemonade, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order, err := c.CreateOrder(ctx, CreateOrderInput{
		TableNumber: "T1",
		Items:       []NewItem{{MenuID: pizza.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	updated, err := c.AddItems(ctx, order.ID, []NewItem{{MenuID: lemonade.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 35.96, updated.Subtotal)
	assert.Equal(t, 3.60, updated.Tax)
	assert.Equal(t, 1.80, updated.ServiceCharge)
	assert.Equal(t, 41.36, updated.TotalAmount)

	// Once cooking starts the ticket is frozen.
	_, err = c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.AddItems(ctx, order.ID, []NewItem{{MenuID: pizza.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRecordPaymentFlipsOnce(t *testing.T) {
	db := setupOrderTestDB(t, "record_payment")
	pizza, _, _, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)

	paid, err := c.RecordPayment(ctx, order.ID, "cash")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "cash", paid.PaymentMethod)

	again, err := c.RecordPayment(ctx, order.ID, "card")
	require.NoError(t, err)
	assert.Equal(t, "cash", again.PaymentMethod, "first settlement wins")

	_, err = c.RecordPayment(ctx, order.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitFeedbackOnlyWhenCompleted(t *testing.T) {
	db := setupOrderTestDB(t, "feedback")
	pizza, _, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.SubmitFeedback(ctx, order.ID, 5, "great")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = c.SubmitFeedback(ctx, order.ID, 9, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.Complete(ctx, order.ID)
	require.NoError(t, err)

	rated, err := c.SubmitFeedback(ctx, order.ID, 4, "lovely crust")
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4, *rated.Rating)
	assert.Equal(t, "lovely crust", rated.Feedback)
}

func TestStatusHistoryRecordsEveryTransition(t *testing.T) {
	db := setupOrderTestDB(t, "status_history")
	pizza, _, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	order := placeOrder(t, c, pizza.ID)
	_, err := c.Confirm(ctx, order.ID)
	require.NoError(t, err)
	_, err = c.Accept(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, order.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.Complete(ctx, order.ID)
	require.NoError(t, err)

	history, err := c.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	statuses := make([]models.OrderStatus, 0, len(history))
	for _, entry := range history {
		statuses = append(statuses, entry.Status)
	}
	assert.Equal(t, []models.OrderStatus{
		models.OrderPending,
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderCompleted,
	}, statuses)
	assert.Equal(t, "Anna", history[2].Actor)
}

func TestKitchenQueueOrdering(t *testing.T) {
	db := setupOrderTestDB(t, "kitchen_queue")
	pizza, _, chef, _ := seedBasics(t, db)
	c := NewCoordinator(db, nil, nil)
	ctx := context.Background()

	first := placeOrder(t, c, pizza.ID)
	second := placeOrder(t, c, pizza.ID)
	third := placeOrder(t, c, pizza.ID)

	_, err := c.Accept(ctx, second.ID, chef.ID)
	require.NoError(t, err)
	_, err = c.MarkReady(ctx, second.ID, chef.ID)
	require.NoError(t, err)

	queue, err := c.KitchenQueue(ctx)
	require.NoError(t, err)
	ids := make([]uint, 0, len(queue))
	for _, o := range queue {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []uint{first.ID, third.ID}, ids, "ready orders leave the queue, arrival order kept")
}

func TestCancelStaleSweepsAbandonedOrders(t *testing.T) {
	db := setupOrderTestDB(t, "cancel_stale")
	pizza, _, chef, _ := seedBasics(t, db)
	rec := &recordingEmitter{}
	c := NewCoordinator(db, rec, nil)
	ctx := context.Background()

	stale := placeOrder(t, c, pizza.ID)
	fresh := placeOrder(t, c, pizza.ID)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	cancelled, err := c.CancelStale(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	swept, err := c.GetOrder(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, swept.Status)
	kept, err := c.GetOrder(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, kept.Status)

	// The live sibling keeps the table held.
	assertOccupancyInvariant(t, db, "T1")
	assert.Equal(t, 1, rec.count(events.OrderStatusChanged))

	history, err := c.StatusHistory(ctx, stale.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "housekeeping", history[len(history)-1].Actor)

	// An order that got picked up meanwhile has left the guard behind.
	_, err = c.Accept(ctx, fresh.ID, chef.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", fresh.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	cancelled, err = c.CancelStale(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, cancelled)
}
