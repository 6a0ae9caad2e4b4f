package bookstore

import (
	"path/filepath"
	"strings"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBootstrapIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.db")

	// Open twice; the second run must not duplicate or error on seed rows.
	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	members, err := db.GetAllMembers()
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("want 3 members, got %d", len(members))
	}

	books, err := db.GetAllBooks()
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("want 3 books, got %d", len(books))
	}

	sales, err := db.ListSales()
	if err != nil {
		t.Fatalf("sales: %v", err)
	}
	if len(sales) != 4 {
		t.Fatalf("want 4 seeded sales, got %d", len(sales))
	}
	for i, s := range sales {
		if s.SaleID != int64(i+1) {
			t.Fatalf("seed sale %d has id %d", i+1, s.SaleID)
		}
	}
}

func TestRecordSale(t *testing.T) {
	db := tempDB(t)

	sale, err := db.RecordSale("2024-02-01", "M001", "B001", 2, 100)
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if sale.Total != 1100 {
		t.Fatalf("want total 1100, got %d", sale.Total)
	}
	if sale.ID != 5 {
		t.Fatalf("want store-assigned id 5 after four seeds, got %d", sale.ID)
	}

	book, err := db.FindBook("B001")
	if err != nil {
		t.Fatalf("find book: %v", err)
	}
	if book.Stock != 48 {
		t.Fatalf("want stock 48, got %d", book.Stock)
	}

	stored, err := db.GetSale(sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if stored.Qty != 2 || stored.Discount != 100 || stored.Total != 1100 {
		t.Fatalf("stored sale mismatch: %+v", stored)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	db := tempDB(t)

	_, err := db.RecordSale("2024-02-01", "M001", "B001", 1000, 0)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !IsRuleError(err) {
		t.Fatalf("want rule error, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient stock") {
		t.Fatalf("want insufficient stock message, got %q", err)
	}
	if !strings.Contains(err.Error(), "50") {
		t.Fatalf("message should carry current stock, got %q", err)
	}

	book, _ := db.FindBook("B001")
	if book.Stock != 50 {
		t.Fatalf("stock mutated on failed sale: %d", book.Stock)
	}
	sales, _ := db.ListSales()
	if len(sales) != 4 {
		t.Fatalf("sale row created on failed sale: %d rows", len(sales))
	}
}

func TestRecordSaleUnknownReferences(t *testing.T) {
	db := tempDB(t)

	if _, err := db.RecordSale("2024-02-01", "M999", "B001", 1, 0); err == nil || !IsRuleError(err) {
		t.Fatalf("unknown member: want rule error, got %v", err)
	}
	if _, err := db.RecordSale("2024-02-01", "M001", "B999", 1, 0); err == nil || !IsRuleError(err) {
		t.Fatalf("unknown book: want rule error, got %v", err)
	}

	sales, _ := db.ListSales()
	if len(sales) != 4 {
		t.Fatalf("mutation on referential failure: %d rows", len(sales))
	}
}

func TestRecordSaleBadInput(t *testing.T) {
	db := tempDB(t)

	cases := []struct {
		name     string
		date     string
		qty      int64
		discount int64
		wantMsg  string
	}{
		{"bad date", "bad-date", 1, 0, "date format"},
		{"zero qty", "2024-02-01", 0, 0, "positive"},
		{"negative qty", "2024-02-01", -3, 0, "positive"},
		{"negative discount", "2024-02-01", 1, -50, "negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.RecordSale(tc.date, "M001", "B001", tc.qty, tc.discount)
			if err == nil || !IsRuleError(err) {
				t.Fatalf("want rule error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("want message containing %q, got %q", tc.wantMsg, err)
			}
		})
	}

	book, _ := db.FindBook("B001")
	if book.Stock != 50 {
		t.Fatalf("stock mutated on rejected input: %d", book.Stock)
	}
}

func TestRecordSaleNegativeTotalAccepted(t *testing.T) {
	db := tempDB(t)

	// Discount above the line total is not clamped.
	sale, err := db.RecordSale("2024-02-01", "M002", "B001", 1, 10000)
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if sale.Total != 600-10000 {
		t.Fatalf("want total %d, got %d", 600-10000, sale.Total)
	}
	stored, err := db.GetSale(sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if stored.Total != sale.Total {
		t.Fatalf("persisted total mismatch: %d", stored.Total)
	}
}

func TestUpdateSaleDiscount(t *testing.T) {
	db := tempDB(t)

	// Seed sale 4 is M003/B001, qty 1, price 600.
	total, err := db.UpdateSaleDiscount(4, 0)
	if err != nil {
		t.Fatalf("update discount 0: %v", err)
	}
	if total != 600 {
		t.Fatalf("want total 600, got %d", total)
	}

	total, err = db.UpdateSaleDiscount(4, 150)
	if err != nil {
		t.Fatalf("update discount 150: %v", err)
	}
	if total != 450 {
		t.Fatalf("want total 450, got %d", total)
	}
	stored, _ := db.GetSale(4)
	if stored.Discount != 150 || stored.Total != 450 {
		t.Fatalf("stored sale not updated: %+v", stored)
	}

	// Stock is untouched by discount updates.
	book, _ := db.FindBook("B001")
	if book.Stock != 50 {
		t.Fatalf("stock mutated by discount update: %d", book.Stock)
	}

	if _, err := db.UpdateSaleDiscount(4, -1); err == nil || !IsRuleError(err) {
		t.Fatalf("negative discount: want rule error, got %v", err)
	}
	if _, err := db.UpdateSaleDiscount(999, 0); err == nil || !IsRuleError(err) {
		t.Fatalf("missing sale: want rule error, got %v", err)
	}
}

func TestDeleteSale(t *testing.T) {
	db := tempDB(t)

	if err := db.DeleteSale(2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sales, err := db.ListSales()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("want 3 sales after delete, got %d", len(sales))
	}
	for _, s := range sales {
		if s.SaleID == 2 {
			t.Fatalf("sale 2 still present")
		}
	}

	// No restock on delete: B002 keeps its seeded stock.
	book, _ := db.FindBook("B002")
	if book.Stock != 30 {
		t.Fatalf("stock changed by delete: %d", book.Stock)
	}

	if err := db.DeleteSale(2); err == nil || !IsRuleError(err) {
		t.Fatalf("double delete: want rule error, got %v", err)
	}
}
