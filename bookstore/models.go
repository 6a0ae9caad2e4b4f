package bookstore

// Member is a registered customer eligible to appear on a sale.
// Members are seeded at bootstrap; there is no member-editing operation.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Book is a stocked catalog item. Price is in the smallest currency unit.
// Stock is decremented only when a sale is recorded; deleting a sale does
// not restore it.
type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
}

// Sale links one member and one book with quantity, discount and the
// derived total (price*qty - discount). The id is assigned by the store.
type Sale struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
	Qty      int64  `json:"qty"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

// SaleListing is the lightweight row shown when the operator picks a sale
// to update or delete.
type SaleListing struct {
	SaleID     int64  `json:"sale_id"`
	MemberName string `json:"member_name"`
	Date       string `json:"date"`
}

// SaleReportRow is one fully joined line of the sales report.
type SaleReportRow struct {
	SaleID     int64  `json:"sale_id"`
	Date       string `json:"date"`
	MemberName string `json:"member_name"`
	BookTitle  string `json:"book_title"`
	Price      int64  `json:"price"`
	Qty        int64  `json:"qty"`
	Discount   int64  `json:"discount"`
	Total      int64  `json:"total"`
}
