package bookstore

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amounts formats currency totals with thousands separators.
var amounts = message.NewPrinter(language.English)

// FormatAmount renders an integer currency amount with thousands separators,
// e.g. 3400 -> "3,400".
func FormatAmount(n int64) string {
	return amounts.Sprintf("%d", n)
}

// RenderSaleReport writes one formatted block per sale to w, with a running
// index. Rows come pre-ordered from SaleReport.
func RenderSaleReport(w io.Writer, rows []*SaleReportRow) {
	for i, r := range rows {
		fmt.Fprintf(w, "\n==================== Sales Report ====================\n")
		fmt.Fprintf(w, "Sale #%d\n", i+1)
		fmt.Fprintf(w, "Sale ID:   %d\n", r.SaleID)
		fmt.Fprintf(w, "Date:      %s\n", r.Date)
		fmt.Fprintf(w, "Member:    %s\n", r.MemberName)
		fmt.Fprintf(w, "Book:      %s\n", r.BookTitle)
		fmt.Fprintf(w, "------------------------------------------------------\n")
		fmt.Fprintf(w, "Price\tQty\tDiscount\tSubtotal\n")
		fmt.Fprintf(w, "------------------------------------------------------\n")
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", r.Price, r.Qty, r.Discount, FormatAmount(r.Total))
		fmt.Fprintf(w, "------------------------------------------------------\n")
		fmt.Fprintf(w, "Total: %s\n", FormatAmount(r.Total))
		fmt.Fprintf(w, "======================================================\n")
	}
}
