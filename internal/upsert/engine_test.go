package upsert

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erpbridge/invoice-intake/internal/models"
)

// fakeStore is an in-memory InvoiceStore with the same uniqueness guarantee
// the real table enforces. existsAlwaysFalse simulates the window where two
// racing requests both observe "does not exist" before either has written.
type fakeStore struct {
	mu                sync.Mutex
	rows              map[string]*models.ValidatedInvoice
	updates           int
	existsAlwaysFalse bool

	existsErr error
	insertErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*models.ValidatedInvoice)}
}

func (s *fakeStore) ExistsByInvoiceID(ctx context.Context, invoiceID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	if s.existsAlwaysFalse {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[invoiceID]
	return ok, nil
}

func (s *fakeStore) Insert(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[inv.InvoiceID]; ok {
		return sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	}
	s.rows[inv.InvoiceID] = inv
	return nil
}

func (s *fakeStore) Update(ctx context.Context, inv *models.ValidatedInvoice, now time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[inv.InvoiceID] = inv
	s.updates++
	return nil
}

func validated(id, amount string) *models.ValidatedInvoice {
	inv := &models.ValidatedInvoice{
		VendorInvoiceRecord: models.VendorInvoiceRecord{
			InvoiceID:       id,
			Amount:          amount,
			OrderNo:         "PO9",
			CostCenter:      "CC100",
			Currency:        "USD",
			PaymentMethod:   "WIRE",
			PaymentType:     "STD",
			BusinessPartner: "BP1",
		},
	}
	inv.ApplyDefaults()
	return inv
}

func TestEngine_Apply_InsertThenUpdate(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, zap.NewNop())
	ctx := context.Background()

	outcome, err := engine.Apply(ctx, validated("INV1", "150.00"))
	require.NoError(t, err)
	assert.Equal(t, models.ActionInserted, outcome.Action)
	assert.Equal(t, 1, outcome.AffectedRecords)

	outcome, err = engine.Apply(ctx, validated("INV1", "200.00"))
	require.NoError(t, err)
	assert.Equal(t, models.ActionUpdated, outcome.Action)
	assert.Equal(t, 1, outcome.AffectedRecords)

	// Still a single row, amount rewritten.
	assert.Len(t, store.rows, 1)
	assert.Equal(t, "200.00", store.rows["INV1"].Amount)
}

func TestEngine_Apply_IdenticalInputTwice(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, zap.NewNop())
	ctx := context.Background()

	first, err := engine.Apply(ctx, validated("INV1", "150.00"))
	require.NoError(t, err)
	second, err := engine.Apply(ctx, validated("INV1", "150.00"))
	require.NoError(t, err)

	assert.Equal(t, models.ActionInserted, first.Action)
	assert.Equal(t, models.ActionUpdated, second.Action)
	assert.Len(t, store.rows, 1)
}

func TestEngine_Apply_Dim1DerivedOnBothPaths(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, zap.NewNop())
	ctx := context.Background()

	_, err := engine.Apply(ctx, validated("INV1", "150.00"))
	require.NoError(t, err)
	assert.Equal(t, "CC100", store.rows["INV1"].Dim1)

	_, err = engine.Apply(ctx, validated("INV1", "200.00"))
	require.NoError(t, err)
	assert.Equal(t, "CC100", store.rows["INV1"].Dim1)
}

// Two racing requests for the same unseen key both pass the existence check;
// the uniqueness constraint must let exactly one insert through and the loser
// must surface as DuplicateKey.
func TestEngine_Apply_ConcurrentInsertRace(t *testing.T) {
	store := newFakeStore()
	store.existsAlwaysFalse = true
	engine := NewEngine(store, zap.NewNop())

	type result struct {
		outcome *models.UpsertOutcome
		err     error
	}
	results := make(chan result, 2)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < 2; i++ {
		go func() {
			start.Wait()
			outcome, err := engine.Apply(context.Background(), validated("INV-RACE", "99.00"))
			results <- result{outcome, err}
		}()
	}
	start.Done()

	var inserted, duplicate int
	for i := 0; i < 2; i++ {
		r := <-results
		switch {
		case r.err == nil && r.outcome.Action == models.ActionInserted:
			inserted++
		case IsDuplicateKey(r.err):
			duplicate++
		default:
			t.Fatalf("unexpected result: outcome=%v err=%v", r.outcome, r.err)
		}
	}

	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, duplicate)
	assert.Len(t, store.rows, 1)
}

func TestEngine_Apply_StoreErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *fakeStore)
		wantKind StoreErrorKind
	}{
		{
			name: "unique violation on insert",
			setup: func(s *fakeStore) {
				s.insertErr = sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
			},
			wantKind: KindDuplicateKey,
		},
		{
			name: "deadline exceeded on lookup",
			setup: func(s *fakeStore) {
				s.existsErr = context.DeadlineExceeded
			},
			wantKind: KindTimeout,
		},
		{
			name: "busy database",
			setup: func(s *fakeStore) {
				s.insertErr = sqlite3.Error{Code: sqlite3.ErrBusy}
			},
			wantKind: KindTimeout,
		},
		{
			name: "bad connection",
			setup: func(s *fakeStore) {
				s.existsErr = driver.ErrBadConn
			},
			wantKind: KindConnectionFailure,
		},
		{
			name: "unrecognized failure",
			setup: func(s *fakeStore) {
				s.insertErr = errors.New("disk I/O error")
			},
			wantKind: KindOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			tt.setup(store)
			engine := NewEngine(store, zap.NewNop())

			_, err := engine.Apply(context.Background(), validated("INV1", "10.00"))
			require.Error(t, err)

			var se *StoreError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantKind, se.Kind)
		})
	}
}

func TestEngine_Apply_UpdateErrorSurfaced(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, zap.NewNop())
	ctx := context.Background()

	_, err := engine.Apply(ctx, validated("INV1", "10.00"))
	require.NoError(t, err)

	store.updateErr = errors.New("write failed")
	_, err = engine.Apply(ctx, validated("INV1", "20.00"))

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindOther, se.Kind)
}
