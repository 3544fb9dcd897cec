package board

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tavola/backoffice/internal/models"
	"github.com/tavola/backoffice/pkg/logger"
)

// fakeOrderService is an in-memory OrderService for tests
type fakeOrderService struct {
	orders      []*models.Order
	listErr     error
	updateErr   error
	updateCalls int
	lastOrderID string
	lastStatus  models.OrderStatus
	serverTime  time.Time
}

func (f *fakeOrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]*models.Order, len(f.orders))

	for i, o := range f.orders {
		clone := *o
		out[i] = &clone
	}

	return out, nil
}

func (f *fakeOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	f.updateCalls++
	f.lastOrderID = orderID
	f.lastStatus = status

	if f.updateErr != nil {
		return nil, f.updateErr
	}

	for _, o := range f.orders {
		if o.ID == orderID {
			clone := *o
			clone.Status = status
			clone.UpdatedAt = f.serverTime
			return &clone, nil
		}
	}

	return nil, errors.New("order not found")
}

// recordingNotifier captures toast calls
type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(title, description string) {
	n.successes = append(n.successes, title+": "+description)
}

func (n *recordingNotifier) Failure(title, description string) {
	n.failures = append(n.failures, title+": "+description)
}

func testOrders() []*models.Order {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return []*models.Order{
		{
			ID:            "1",
			CustomerName:  "Maria Silva",
			CustomerPhone: "+5511999990000",
			Status:        models.OrderStatusNew,
			Total:         42.5,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
		{
			ID:            "2",
			CustomerName:  "Joao Souza",
			CustomerPhone: "+5511888880000",
			Status:        models.OrderStatusPreparing,
			Total:         18.0,
			CreatedAt:     created.Add(time.Minute),
			UpdatedAt:     created.Add(time.Minute),
		},
	}
}

func newTestBoard(t *testing.T, svc *fakeOrderService) (*Board, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	b := New(svc, notifier, DefaultConfig(), logger.Nop())
	b.Load(context.Background())

	return b, notifier
}

// dragTo runs a full activated gesture from an order card to a drop target
func dragTo(b *Board, orderID, dropTargetID string) {
	b.StartDrag(orderID)
	b.MoveDrag(10, 0)
	b.Drop(dropTargetID)
}

func TestColumns_EveryOrderInExactlyOneColumn(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	seen := make(map[string]int)

	for _, col := range b.Columns() {
		for _, order := range col.Orders {
			seen[order.ID]++

			if order.Status != col.ID {
				t.Errorf("order %s with status %s rendered in column %s", order.ID, order.Status, col.ID)
			}
		}
	}

	for _, order := range b.Orders() {
		if seen[order.ID] != 1 {
			t.Errorf("order %s appears in %d columns, want 1", order.ID, seen[order.ID])
		}
	}
}

func TestColumns_EmptyColumnIsExplicit(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	cols := b.Columns()

	if len(cols) != 4 {
		t.Fatalf("got %d columns, want 4", len(cols))
	}

	for _, col := range cols {
		if col.Orders == nil {
			t.Errorf("column %s has nil order list, want empty slice", col.ID)
		}
	}
}

func TestFilterByStatus_PreservesFetchOrder(t *testing.T) {
	orders := testOrders()
	extra := *orders[0]
	extra.ID = "3"
	orders = append(orders, &extra)

	filtered := FilterByStatus(orders, models.OrderStatusNew)

	if len(filtered) != 2 || filtered[0].ID != "1" || filtered[1].ID != "3" {
		t.Fatalf("filtered order wrong: got %d entries", len(filtered))
	}
}

func TestLoad_FailureLeavesEmptyBoardAndNotifies(t *testing.T) {
	svc := &fakeOrderService{listErr: errors.New("connection refused")}
	b, notifier := newTestBoard(t, svc)

	if len(b.Orders()) != 0 {
		t.Fatalf("expected empty store after failed load, got %d orders", len(b.Orders()))
	}

	if len(notifier.failures) != 1 {
		t.Fatalf("expected one failure notification, got %d", len(notifier.failures))
	}
}

func TestDrag_SameColumnDropIsNoOp(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, notifier := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusNew))

	if b.Pending() != nil {
		t.Fatal("same-column drop must not create a pending transition")
	}

	if b.GateState() != GateIdle {
		t.Fatalf("gate state = %s, want idle", b.GateState())
	}

	if len(notifier.successes)+len(notifier.failures) != 0 {
		t.Fatal("same-column drop must not notify")
	}
}

func TestDrag_DropOutsideAnyTargetIsDiscarded(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	dragTo(b, "1", "")

	if b.Pending() != nil {
		t.Fatal("drop outside any target must not create a pending transition")
	}
}

func TestDrag_UnknownOrderIsIgnored(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	dragTo(b, "does-not-exist", string(models.OrderStatusReady))

	if b.Pending() != nil {
		t.Fatal("unknown order must not create a pending transition")
	}
}

func TestDrag_BelowThresholdIsAClick(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	b.StartDrag("1")
	b.MoveDrag(3, 2)
	b.Drop(string(models.OrderStatusPreparing))

	if b.Pending() != nil {
		t.Fatal("gesture below the activation threshold must not create a pending transition")
	}
}

func TestDrag_ThresholdAccumulatesAcrossMoves(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	b.StartDrag("1")
	b.MoveDrag(3, 0)
	b.MoveDrag(3, 0)
	b.MoveDrag(3, 0)
	b.Drop(string(models.OrderStatusPreparing))

	if b.Pending() == nil {
		t.Fatal("accumulated movement past the threshold must activate the drag")
	}
}

func TestDrag_DropOnCardInheritsItsColumn(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	// Drop order 1 (NEW) onto order 2's card, which sits in PREPARING
	dragTo(b, "1", "2")

	pending := b.Pending()

	if pending == nil {
		t.Fatal("expected a pending transition")
	}

	if pending.OrderID != "1" || pending.TargetStatus != models.OrderStatusPreparing {
		t.Fatalf("pending = %+v, want order 1 -> PREPARING", pending)
	}
}

func TestDrag_StartWhileGateBusyIsNoOp(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusPreparing))

	if b.GateState() != GateAwaitingConfirmation {
		t.Fatalf("gate state = %s, want awaiting_confirmation", b.GateState())
	}

	first := b.Pending()

	// A second gesture while the modal is open must not displace the
	// pending transition
	dragTo(b, "2", string(models.OrderStatusReady))

	if b.Pending() != first {
		t.Fatal("second gesture displaced the pending transition")
	}
}

func TestConfirm_SuccessCommitsExactlyOneOrder(t *testing.T) {
	serverTime := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	svc := &fakeOrderService{orders: testOrders(), serverTime: serverTime}
	b, notifier := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusPreparing))
	b.Confirm(context.Background())

	orders := b.Orders()

	if orders[0].Status != models.OrderStatusPreparing {
		t.Fatalf("order 1 status = %s, want PREPARING", orders[0].Status)
	}

	if !orders[0].UpdatedAt.Equal(serverTime) {
		t.Fatalf("order 1 updatedAt = %v, want server time %v", orders[0].UpdatedAt, serverTime)
	}

	if orders[1].Status != models.OrderStatusPreparing || !orders[1].UpdatedAt.Equal(testOrders()[1].UpdatedAt) {
		t.Fatal("order 2 must be untouched")
	}

	if b.GateState() != GateIdle {
		t.Fatalf("gate state = %s, want idle", b.GateState())
	}

	if b.Pending() != nil {
		t.Fatal("pending transition must be cleared after success")
	}

	if svc.updateCalls != 1 || svc.lastOrderID != "1" || svc.lastStatus != models.OrderStatusPreparing {
		t.Fatalf("service called %d times with (%s, %s)", svc.updateCalls, svc.lastOrderID, svc.lastStatus)
	}

	if len(notifier.successes) != 1 {
		t.Fatalf("expected one success notification, got %d", len(notifier.successes))
	}
}

func TestConfirm_FailureLeavesStoreUnchanged(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders(), updateErr: errors.New("backend rejected transition")}
	b, notifier := newTestBoard(t, svc)

	before := b.Orders()
	snapshot := make([]models.Order, len(before))

	for i, o := range before {
		snapshot[i] = *o
	}

	dragTo(b, "1", string(models.OrderStatusPreparing))
	b.Confirm(context.Background())

	after := b.Orders()

	for i, o := range after {
		if !reflect.DeepEqual(*o, snapshot[i]) {
			t.Fatalf("order %s changed on failed confirm: %+v != %+v", o.ID, *o, snapshot[i])
		}
	}

	if b.GateState() != GateIdle {
		t.Fatalf("gate state = %s, want idle", b.GateState())
	}

	if b.Pending() != nil {
		t.Fatal("pending transition must be cleared after failure")
	}

	if len(notifier.failures) != 1 {
		t.Fatalf("expected one failure notification, got %d", len(notifier.failures))
	}

	if len(notifier.successes) != 0 {
		t.Fatal("failed confirm must not emit a success notification")
	}
}

func TestCancel_NeverCallsServiceAndLeavesStoreUnchanged(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, notifier := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusReady))
	b.Cancel()

	if svc.updateCalls != 0 {
		t.Fatalf("cancel issued %d network calls, want 0", svc.updateCalls)
	}

	if b.Orders()[0].Status != models.OrderStatusNew {
		t.Fatal("cancel must leave the store unchanged")
	}

	if b.GateState() != GateIdle {
		t.Fatalf("gate state = %s, want idle", b.GateState())
	}

	if len(notifier.successes)+len(notifier.failures) != 0 {
		t.Fatal("cancel must not notify")
	}
}

func TestConfirm_WhileIdleIsNoOp(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	b.Confirm(context.Background())

	if svc.updateCalls != 0 {
		t.Fatal("confirm without a pending transition must not call the service")
	}
}

func TestScenario_DragConfirmSuccess(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders(), serverTime: time.Now().UTC()}
	b, _ := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusPreparing))
	b.Confirm(context.Background())

	orders := b.Orders()

	if orders[0].Status != models.OrderStatusPreparing || orders[1].Status != models.OrderStatusPreparing {
		t.Fatalf("final statuses = [%s, %s], want [PREPARING, PREPARING]", orders[0].Status, orders[1].Status)
	}
}

func TestScenario_DragConfirmFailure(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders(), updateErr: errors.New("boom")}
	b, notifier := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusPreparing))
	b.Confirm(context.Background())

	orders := b.Orders()

	if orders[0].Status != models.OrderStatusNew || orders[1].Status != models.OrderStatusPreparing {
		t.Fatalf("final statuses = [%s, %s], want [NEW, PREPARING]", orders[0].Status, orders[1].Status)
	}

	if len(notifier.failures) != 1 {
		t.Fatal("expected a failure notification")
	}
}

func TestOrders_ReturnsDeepCopies(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders()}
	b, _ := newTestBoard(t, svc)

	leaked := b.Orders()
	leaked[0].Status = models.OrderStatusDelivered
	leaked[0].CustomerName = "tampered"

	fresh := b.Orders()

	if fresh[0].Status != models.OrderStatusNew || fresh[0].CustomerName != "Maria Silva" {
		t.Fatal("mutating an accessor result must not reach the store")
	}
}

func TestConfirm_NotificationsUseColumnTitles(t *testing.T) {
	svc := &fakeOrderService{orders: testOrders(), serverTime: time.Now().UTC()}
	b, notifier := newTestBoard(t, svc)

	dragTo(b, "1", string(models.OrderStatusPreparing))
	b.Confirm(context.Background())

	if len(notifier.successes) != 1 {
		t.Fatalf("expected one success notification, got %d", len(notifier.successes))
	}

	toast := notifier.successes[0]

	if !strings.Contains(toast, "Preparing") || strings.Contains(toast, "PREPARING") {
		t.Fatalf("toast %q must name the column title, not the raw status", toast)
	}
}

func TestResolveDropTarget(t *testing.T) {
	orders := testOrders()

	tests := []struct {
		name       string
		targetID   string
		wantStatus models.OrderStatus
		wantOK     bool
	}{
		{"column id", string(models.OrderStatusReady), models.OrderStatusReady, true},
		{"card inherits column", "2", models.OrderStatusPreparing, true},
		{"unknown target", "nowhere", "", false},
		{"empty target", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := ResolveDropTarget(tt.targetID, orders)

			if ok != tt.wantOK || status != tt.wantStatus {
				t.Fatalf("ResolveDropTarget(%q) = (%s, %v), want (%s, %v)",
					tt.targetID, status, ok, tt.wantStatus, tt.wantOK)
			}
		})
	}
}
