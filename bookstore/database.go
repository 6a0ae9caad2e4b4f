package bookstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB

	addSaleStmt     *sql.Stmt
	decrementBkStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies the
// schema, seeds the initial catalog, and prepares common statements.
// Bootstrap is idempotent: re-opening an existing store never duplicates rows.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seedData(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addSaleStmt != nil {
		d.addSaleStmt.Close()
	}
	if d.decrementBkStmt != nil {
		d.decrementBkStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration and seed data
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS member (
            mid TEXT PRIMARY KEY,
            mname TEXT NOT NULL,
            mphone TEXT NOT NULL,
            memail TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS book (
            bid TEXT PRIMARY KEY,
            btitle TEXT NOT NULL,
            bprice INTEGER NOT NULL,
            bstock INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS sale (
            sid INTEGER PRIMARY KEY AUTOINCREMENT,
            sdate TEXT NOT NULL,
            mid TEXT NOT NULL REFERENCES member(mid),
            bid TEXT NOT NULL REFERENCES book(bid),
            sqty INTEGER NOT NULL,
            sdiscount INTEGER NOT NULL,
            stotal INTEGER NOT NULL
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// seedData inserts the initial members, catalog, and historical sales.
// INSERT OR IGNORE keeps re-runs from duplicating or erroring on existing
// rows, independently of the schema_version gate.
func seedData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`INSERT OR IGNORE INTO member VALUES ('M001','Alice','0912-345678','alice@example.com');`,
		`INSERT OR IGNORE INTO member VALUES ('M002','Bob','0923-456789','bob@example.com');`,
		`INSERT OR IGNORE INTO member VALUES ('M003','Cathy','0934-567890','cathy@example.com');`,
		`INSERT OR IGNORE INTO book VALUES ('B001','Python Programming',600,50);`,
		`INSERT OR IGNORE INTO book VALUES ('B002','Data Science Basics',800,30);`,
		`INSERT OR IGNORE INTO book VALUES ('B003','Machine Learning Guide',1200,20);`,
		`INSERT OR IGNORE INTO sale (sid,sdate,mid,bid,sqty,sdiscount,stotal)
            VALUES (1,'2024-01-15','M001','B001',2,100,1100);`,
		`INSERT OR IGNORE INTO sale (sid,sdate,mid,bid,sqty,sdiscount,stotal)
            VALUES (2,'2024-01-16','M002','B002',1,50,750);`,
		`INSERT OR IGNORE INTO sale (sid,sdate,mid,bid,sqty,sdiscount,stotal)
            VALUES (3,'2024-01-17','M001','B003',3,200,3400);`,
		`INSERT OR IGNORE INTO sale (sid,sdate,mid,bid,sqty,sdiscount,stotal)
            VALUES (4,'2024-01-18','M003','B001',1,0,600);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addSaleStmt, err = d.db.Prepare(
		`INSERT INTO sale (sdate,mid,bid,sqty,sdiscount,stotal) VALUES (?,?,?,?,?,?)`); err != nil {
		return err
	}
	if d.decrementBkStmt, err = d.db.Prepare(
		`UPDATE book SET bstock = bstock - ? WHERE bid = ?`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// MemberExists reports whether a member with the given id is registered.
func (d *Database) MemberExists(id string) (bool, error) {
	var exists bool
	if err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM member WHERE mid=?)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindBook returns the book with the given id, or (nil, nil) when no such
// book exists.
func (d *Database) FindBook(id string) (*Book, error) {
	var b Book
	err := d.db.QueryRow(`SELECT bid,btitle,bprice,bstock FROM book WHERE bid=?`, id).
		Scan(&b.ID, &b.Title, &b.Price, &b.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetMember fetches a single member.
func (d *Database) GetMember(id string) (*Member, error) {
	var m Member
	err := d.db.QueryRow(`SELECT mid,mname,mphone,COALESCE(memail,'') FROM member WHERE mid=?`, id).
		Scan(&m.ID, &m.Name, &m.Phone, &m.Email)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetAllMembers returns all members ordered by id.
func (d *Database) GetAllMembers() ([]*Member, error) {
	rows, err := d.db.Query(`SELECT mid,mname,mphone,COALESCE(memail,'') FROM member ORDER BY mid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// GetAllBooks returns the catalog ordered by id.
func (d *Database) GetAllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT bid,btitle,bprice,bstock FROM book ORDER BY bid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.Stock); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

// GetSale fetches a single sale row.
func (d *Database) GetSale(id int64) (*Sale, error) {
	var s Sale
	err := d.db.QueryRow(`SELECT sid,sdate,mid,bid,sqty,sdiscount,stotal FROM sale WHERE sid=?`, id).
		Scan(&s.ID, &s.Date, &s.MemberID, &s.BookID, &s.Qty, &s.Discount, &s.Total)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSales returns (sale id, member name, date) for every sale ordered by
// sale id ascending, for operator selection lists.
func (d *Database) ListSales() ([]*SaleListing, error) {
	rows, err := d.db.Query(`
        SELECT s.sid, m.mname, s.sdate
        FROM sale s
        JOIN member m ON s.mid = m.mid
        ORDER BY s.sid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var listings []*SaleListing
	for rows.Next() {
		var l SaleListing
		if err := rows.Scan(&l.SaleID, &l.MemberName, &l.Date); err != nil {
			return nil, err
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// SaleReport joins sale, member, and book rows ordered by sale id.
func (d *Database) SaleReport() ([]*SaleReportRow, error) {
	rows, err := d.db.Query(`
        SELECT s.sid, s.sdate, m.mname, b.btitle, b.bprice,
               s.sqty, s.sdiscount, s.stotal
        FROM sale s
        JOIN member m ON s.mid = m.mid
        JOIN book b ON s.bid = b.bid
        ORDER BY s.sid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var report []*SaleReportRow
	for rows.Next() {
		var r SaleReportRow
		if err := rows.Scan(&r.SaleID, &r.Date, &r.MemberName, &r.BookTitle,
			&r.Price, &r.Qty, &r.Discount, &r.Total); err != nil {
			return nil, err
		}
		report = append(report, &r)
	}
	return report, rows.Err()
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// RecordSale validates the candidate sale, then inserts the sale row and
// decrements the book's stock in one transaction. Validation failures come
// back as RuleErrors with no storage mutation; a failure during the write
// pair rolls back fully.
//
// The computed total is price*qty - discount and may go negative when the
// discount exceeds the line total; that is accepted as-is.
func (d *Database) RecordSale(date, memberID, bookID string, qty, discount int64) (*Sale, error) {
	draft := &saleDraft{
		store:    d,
		date:     date,
		memberID: memberID,
		bookID:   bookID,
		qty:      qty,
		discount: discount,
	}
	if err := validateSale(draft); err != nil {
		return nil, err
	}

	total := draft.book.Price*qty - discount

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Stmt(d.addSaleStmt).Exec(date, memberID, bookID, qty, discount, total)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sale id: %w", err)
	}
	if _, err := tx.Stmt(d.decrementBkStmt).Exec(qty, bookID); err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	return &Sale{
		ID:       id,
		Date:     date,
		MemberID: memberID,
		BookID:   bookID,
		Qty:      qty,
		Discount: discount,
		Total:    total,
	}, nil
}

// UpdateSaleDiscount overwrites the discount on one sale and recomputes its
// total from the stored quantity and the book's current price. Stock is
// untouched. Returns the new total.
func (d *Database) UpdateSaleDiscount(saleID, discount int64) (int64, error) {
	if discount < 0 {
		return 0, ruleErrorf("discount cannot be negative")
	}

	var qty, price int64
	err := d.db.QueryRow(`
        SELECT s.sqty, b.bprice
        FROM sale s
        JOIN book b ON s.bid = b.bid
        WHERE s.sid = ?`, saleID).Scan(&qty, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ruleErrorf("no sale with id %d", saleID)
	}
	if err != nil {
		return 0, fmt.Errorf("fetch sale %d: %w", saleID, err)
	}

	total := price*qty - discount
	if _, err := d.db.Exec(`UPDATE sale SET sdiscount=?, stotal=? WHERE sid=?`,
		discount, total, saleID); err != nil {
		return 0, fmt.Errorf("update sale %d: %w", saleID, err)
	}
	return total, nil
}

// DeleteSale removes one sale row. Stock consumed by the original sale is
// not restored.
func (d *Database) DeleteSale(saleID int64) error {
	res, err := d.db.Exec(`DELETE FROM sale WHERE sid=?`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", saleID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ruleErrorf("no sale with id %d", saleID)
	}
	return nil
}
