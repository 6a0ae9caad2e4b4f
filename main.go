package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bookstore-management/bookstore"

	"github.com/spf13/cobra"
)

const defaultDBFile = "bookstore.db"

var dbFile string

func main() {
	root := &cobra.Command{
		Use:          "bookstore",
		Short:        "Sales ledger for a small bookstore",
		Long:         "Interactive console for recording, reporting, updating and deleting bookstore sales.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu()
		},
	}
	root.PersistentFlags().StringVar(&dbFile, "db", defaultDBFile, "path to the SQLite store file")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the sales report and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := bookstore.NewStoreManager(dbFile)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer mgr.Close()
			return mgr.WriteSaleReport(os.Stdout)
		},
	}
	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMenu() error {
	mgr, err := bookstore.NewStoreManager(dbFile)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer mgr.Close()

	sc := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\n*************** Menu ***************")
		fmt.Println("1. Add sale")
		fmt.Println("2. Show sales report")
		fmt.Println("3. Update sale")
		fmt.Println("4. Delete sale")
		fmt.Println("5. Exit")
		fmt.Println("************************************")
		fmt.Print("Choose an option (Enter to exit): ")

		if !sc.Scan() {
			break
		}
		choice := strings.TrimSpace(sc.Text())

		switch choice {
		case "", "5":
			fmt.Println("Goodbye!")
			return nil
		case "1":
			handleAddSale(sc, mgr)
		case "2":
			if err := mgr.WriteSaleReport(os.Stdout); err != nil {
				fmt.Printf("=> Error reading report: %v\n", err)
			}
		case "3":
			handleUpdateSale(sc, mgr)
		case "4":
			handleDeleteSale(sc, mgr)
		default:
			fmt.Println("=> Please enter a valid option (1-5)")
		}
	}

	fmt.Println("Goodbye!")
	return nil
}

func handleAddSale(sc *bufio.Scanner, mgr *bookstore.StoreManager) {
	date, ok := promptLine(sc, "Sale date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	memberID, ok := promptLine(sc, "Member ID: ")
	if !ok {
		return
	}
	bookID, ok := promptLine(sc, "Book ID: ")
	if !ok {
		return
	}

	qty, ok := promptQty(sc)
	if !ok {
		return
	}
	discount, ok := promptDiscount(sc)
	if !ok {
		return
	}

	sale, err := mgr.RecordSale(date, memberID, bookID, qty, discount)
	switch {
	case err == nil:
		fmt.Printf("=> Sale recorded! (total: %s)\n", bookstore.FormatAmount(sale.Total))
	case bookstore.IsRuleError(err):
		fmt.Printf("=> Error: %v\n", err)
	default:
		// Storage failure already rolled back; keep the detail off the console.
		fmt.Println("=> Database error, sale not added")
	}
}

// promptQty loops until it reads a positive integer.
func promptQty(sc *bufio.Scanner) (int64, bool) {
	for {
		raw, ok := promptLine(sc, "Quantity: ")
		if !ok {
			return 0, false
		}
		qty, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Println("=> Error: quantity must be an integer, try again")
			continue
		}
		if qty <= 0 {
			fmt.Println("=> Error: quantity must be a positive integer, try again")
			continue
		}
		return qty, true
	}
}

// promptDiscount loops until it reads a non-negative integer.
func promptDiscount(sc *bufio.Scanner) (int64, bool) {
	for {
		raw, ok := promptLine(sc, "Discount amount: ")
		if !ok {
			return 0, false
		}
		discount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Println("=> Error: discount must be an integer, try again")
			continue
		}
		if discount < 0 {
			fmt.Println("=> Error: discount cannot be negative, try again")
			continue
		}
		return discount, true
	}
}

func handleUpdateSale(sc *bufio.Scanner, mgr *bookstore.StoreManager) {
	ids, ok := printSaleList(mgr)
	if !ok {
		return
	}

	raw, ok := promptLine(sc, "Select a sale to update (number, Enter to cancel): ")
	if !ok || raw == "" {
		return
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("=> Error: please enter a valid number")
		return
	}
	saleID, err := bookstore.SelectByIndex(ids, index)
	if err != nil {
		fmt.Printf("=> Error: %v\n", err)
		return
	}

	raw, ok = promptLine(sc, "New discount amount: ")
	if !ok {
		return
	}
	discount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("=> Error: please enter a valid number")
		return
	}

	total, err := mgr.UpdateSaleDiscount(saleID, discount)
	switch {
	case err == nil:
		fmt.Printf("=> Sale %d updated! (total: %s)\n", saleID, bookstore.FormatAmount(total))
	case bookstore.IsRuleError(err):
		fmt.Printf("=> Error: %v\n", err)
	default:
		fmt.Println("=> Database error, sale not updated")
	}
}

func handleDeleteSale(sc *bufio.Scanner, mgr *bookstore.StoreManager) {
	ids, ok := printSaleList(mgr)
	if !ok {
		return
	}

	for {
		raw, ok := promptLine(sc, "Select a sale to delete (number, Enter to cancel): ")
		if !ok || raw == "" {
			return
		}
		index, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("=> Error: please enter a valid number")
			continue
		}
		saleID, err := bookstore.SelectByIndex(ids, index)
		if err != nil {
			fmt.Printf("=> Error: %v\n", err)
			continue
		}

		if err := mgr.DeleteSale(saleID); err != nil {
			if bookstore.IsRuleError(err) {
				fmt.Printf("=> Error: %v\n", err)
			} else {
				fmt.Println("=> Database error, sale not deleted")
			}
			return
		}
		fmt.Printf("=> Sale %d deleted\n", saleID)
		return
	}
}

// printSaleList shows the ordered sale listing and returns the sale ids in
// display order. The second result is false when there is nothing to pick.
func printSaleList(mgr *bookstore.StoreManager) ([]int64, bool) {
	listings, err := mgr.ListSales()
	if err != nil {
		fmt.Printf("=> Error listing sales: %v\n", err)
		return nil, false
	}
	if len(listings) == 0 {
		fmt.Println("No sales recorded.")
		return nil, false
	}

	fmt.Println("\n======== Sales ========")
	for i, l := range listings {
		fmt.Printf("%d. Sale #%d - Member: %s - Date: %s\n", i+1, l.SaleID, l.MemberName, l.Date)
	}
	fmt.Println("=======================")

	ids := make([]int64, len(listings))
	for i, l := range listings {
		ids[i] = l.SaleID
	}
	return ids, true
}

func promptLine(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}
