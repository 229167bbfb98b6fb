package database

import (
	"context"
	"errors"
	"fmt"

	"billing-backend/invoicing"
	"billing-backend/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE raised when current_number + 1 leaves the bigint range.
const pgNumericOutOfRange = "22003"

// Store implements invoicing.Store on Postgres.
type Store struct {
	db *gorm.DB
}

var _ invoicing.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Counters() invoicing.CounterStore   { return counterStore{db: s.db} }
func (s *Store) Documents() invoicing.DocumentStore { return documentStore{db: s.db} }

// Transaction runs fn in a database transaction. The row locks taken by
// counter advances are released at commit or rollback.
func (s *Store) Transaction(ctx context.Context, fn func(tx invoicing.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

type counterStore struct {
	db *gorm.DB
}

func (c counterStore) Get(ctx context.Context, module string) (models.InvoiceCounter, error) {
	var counter models.InvoiceCounter
	err := c.db.WithContext(ctx).First(&counter, "module = ?", module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return counter, invoicing.ErrCounterNotFound
	}
	return counter, err
}

func (c counterStore) List(ctx context.Context) ([]models.InvoiceCounter, error) {
	var counters []models.InvoiceCounter
	err := c.db.WithContext(ctx).Order("module").Find(&counters).Error
	return counters, err
}

func (c counterStore) Put(ctx context.Context, counter models.InvoiceCounter) (models.InvoiceCounter, error) {
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "module"}},
			DoUpdates: clause.AssignmentColumns([]string{"prefix", "current_number", "updated_at"}),
		}).
		Create(&counter).Error
	return counter, err
}

// Advance is a single UPDATE ... RETURNING. Postgres serializes concurrent
// advances of one module on the row lock; other modules are other rows.
func (c counterStore) Advance(ctx context.Context, module string) (models.InvoiceCounter, error) {
	var after models.InvoiceCounter
	res := c.db.WithContext(ctx).
		Model(&after).
		Clauses(clause.Returning{}).
		Where("module = ?", module).
		Update("current_number", gorm.Expr("current_number + 1"))
	var pgErr *pgconn.PgError
	if errors.As(res.Error, &pgErr) && pgErr.Code == pgNumericOutOfRange {
		return models.InvoiceCounter{}, fmt.Errorf("%w: %s", invoicing.ErrCounterExhausted, module)
	}
	if res.Error != nil {
		return models.InvoiceCounter{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.InvoiceCounter{}, invoicing.ErrCounterNotFound
	}
	before := after
	before.CurrentNumber--
	return before, nil
}

type documentStore struct {
	db *gorm.DB
}

func (d documentStore) Create(ctx context.Context, doc models.Document) error {
	err := d.db.WithContext(ctx).Create(doc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", invoicing.ErrDuplicateInvoiceNo, doc.InvoiceNumber())
	}
	return err
}

func (d documentStore) Get(ctx context.Context, module, id string) (models.Document, error) {
	return d.first(ctx, module, "id = ?", id)
}

func (d documentStore) FindByInvoiceNo(ctx context.Context, module, invoiceNo string) (models.Document, error) {
	return d.first(ctx, module, "invoice_no = ?", invoiceNo)
}

func (d documentStore) first(ctx context.Context, module string, query string, args ...any) (models.Document, error) {
	doc := models.NewDocument(module)
	if doc == nil {
		return nil, invoicing.ErrUnknownModule
	}
	err := d.db.WithContext(ctx).Where(query, args...).First(doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoicing.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d documentStore) List(ctx context.Context, module string) ([]models.Document, error) {
	db := d.db.WithContext(ctx).Order("created_at")
	switch module {
	case models.ModulePerforma:
		return listAll[models.Performa](db)
	case models.ModuleQuotation:
		return listAll[models.Quotation](db)
	case models.ModulePurchase:
		return listAll[models.PurchaseOrder](db)
	}
	return nil, invoicing.ErrUnknownModule
}

func listAll[T any, P interface {
	*T
	models.Document
}](db *gorm.DB) ([]models.Document, error) {
	var rows []T
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Document, 0, len(rows))
	for i := range rows {
		out = append(out, P(&rows[i]))
	}
	return out, nil
}

// Delete removes the document only. The module counter is left alone so
// numbers are never reused.
func (d documentStore) Delete(ctx context.Context, module, id string) error {
	doc := models.NewDocument(module)
	if doc == nil {
		return invoicing.ErrUnknownModule
	}
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(doc)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invoicing.ErrDocumentNotFound
	}
	return nil
}

func (d documentStore) SetAttachment(ctx context.Context, module, id, path string) (models.Document, error) {
	doc := models.NewDocument(module)
	if doc == nil {
		return nil, invoicing.ErrUnknownModule
	}
	res := d.db.WithContext(ctx).Model(doc).Where("id = ?", id).Update("pdf_file", path)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, invoicing.ErrDocumentNotFound
	}
	return d.Get(ctx, module, id)
}
