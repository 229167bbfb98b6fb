// Package invoicingtest provides an in-memory invoicing.Store for tests.
//
// It keeps the locking contract of the database store: an advance inside a
// transaction holds the module's row lock until commit or rollback, and
// writes become visible only on commit.
package invoicingtest

import (
	"context"
	"sync"

	"billing-backend/invoicing"
	"billing-backend/models"
)

type Store struct {
	mu       sync.Mutex
	counters map[string]models.InvoiceCounter
	docs     map[string][]models.Document
	rows     map[string]*sync.Mutex

	// Fault injection, all optional.

	// CreateErr fails a document insert when it returns non-nil.
	CreateErr func(doc models.Document) error
	// CommitFault runs at commit; apply reports whether the writes land
	// before err is returned.
	CommitFault func() (apply bool, err error)
	// FindErr fails FindByInvoiceNo when it returns non-nil.
	FindErr func() error
	// GetCounterErr fails counter reads when it returns non-nil.
	GetCounterErr func() error
}

var _ invoicing.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		counters: make(map[string]models.InvoiceCounter),
		docs:     make(map[string][]models.Document),
		rows:     make(map[string]*sync.Mutex),
	}
}

// Counter returns the committed counter of module.
func (s *Store) Counter(module string) (models.InvoiceCounter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[module]
	return c, ok
}

// Count returns the number of committed documents of module.
func (s *Store) Count(module string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs[module])
}

func (s *Store) Counters() invoicing.CounterStore   { return &counterView{s: s} }
func (s *Store) Documents() invoicing.DocumentStore { return &documentView{s: s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx invoicing.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txn{
		s:        s,
		held:     make(map[string]*sync.Mutex),
		counters: make(map[string]models.InvoiceCounter),
	}
	defer tx.release()
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

func (s *Store) row(module string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[module]
	if !ok {
		m = &sync.Mutex{}
		s.rows[module] = m
	}
	return m
}

type txn struct {
	s        *Store
	held     map[string]*sync.Mutex
	counters map[string]models.InvoiceCounter
	inserts  []models.Document
}

func (t *txn) Counters() invoicing.CounterStore   { return &counterView{s: t.s, tx: t} }
func (t *txn) Documents() invoicing.DocumentStore { return &documentView{s: t.s, tx: t} }

// Transaction joins the running transaction.
func (t *txn) Transaction(ctx context.Context, fn func(tx invoicing.Store) error) error {
	return fn(t)
}

func (t *txn) lock(module string) {
	if _, ok := t.held[module]; ok {
		return
	}
	m := t.s.row(module)
	m.Lock()
	t.held[module] = m
}

func (t *txn) release() {
	for module, m := range t.held {
		m.Unlock()
		delete(t.held, module)
	}
}

func (t *txn) commit() error {
	if t.s.CommitFault != nil {
		apply, err := t.s.CommitFault()
		if apply {
			t.apply()
		}
		if err != nil {
			return err
		}
		if apply {
			return nil
		}
	}
	t.apply()
	return nil
}

func (t *txn) apply() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for module, c := range t.counters {
		t.s.counters[module] = c
	}
	for _, doc := range t.inserts {
		t.s.docs[doc.Module()] = append(t.s.docs[doc.Module()], doc)
	}
}
