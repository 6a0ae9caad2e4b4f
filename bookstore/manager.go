package bookstore

import "io"

// StoreManager is a thin façade over the Database, keeping CLI code simple.
type StoreManager struct {
	db *Database
}

// NewStoreManager opens (or creates) the SQLite database at dbPath.
func NewStoreManager(dbPath string) (*StoreManager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &StoreManager{db: db}, nil
}

// Close closes the underlying database.
func (sm *StoreManager) Close() error { return sm.db.Close() }

// ------------------ Sales ------------------

// RecordSale records a new sale and decrements the book's stock.
func (sm *StoreManager) RecordSale(date, memberID, bookID string, qty, discount int64) (*Sale, error) {
	return sm.db.RecordSale(date, memberID, bookID, qty, discount)
}

func (sm *StoreManager) GetSale(id int64) (*Sale, error)       { return sm.db.GetSale(id) }
func (sm *StoreManager) ListSales() ([]*SaleListing, error)    { return sm.db.ListSales() }
func (sm *StoreManager) SaleReport() ([]*SaleReportRow, error) { return sm.db.SaleReport() }

// WriteSaleReport renders the full sales report to w.
func (sm *StoreManager) WriteSaleReport(w io.Writer) error {
	rows, err := sm.db.SaleReport()
	if err != nil {
		return err
	}
	RenderSaleReport(w, rows)
	return nil
}

// UpdateSaleDiscount sets a new discount on a sale and recomputes its total.
func (sm *StoreManager) UpdateSaleDiscount(saleID, discount int64) (int64, error) {
	return sm.db.UpdateSaleDiscount(saleID, discount)
}

// DeleteSale removes one sale record.
func (sm *StoreManager) DeleteSale(saleID int64) error { return sm.db.DeleteSale(saleID) }

// ------------------ Catalog helpers ------------------

func (sm *StoreManager) FindBook(id string) (*Book, error)    { return sm.db.FindBook(id) }
func (sm *StoreManager) GetAllBooks() ([]*Book, error)        { return sm.db.GetAllBooks() }
func (sm *StoreManager) GetMember(id string) (*Member, error) { return sm.db.GetMember(id) }
func (sm *StoreManager) GetAllMembers() ([]*Member, error)    { return sm.db.GetAllMembers() }

// ------------------ Selection ------------------

// SelectByIndex maps a 1-based displayed index onto the id at that position
// of an ordered listing. It is the pure half of the "pick a record from a
// printed list" pattern; prompting stays in the CLI layer.
func SelectByIndex(ids []int64, index int) (int64, error) {
	if index < 1 || index > len(ids) {
		return 0, ruleErrorf("please enter a number between 1 and %d", len(ids))
	}
	return ids[index-1], nil
}
