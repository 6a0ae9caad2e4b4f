package main

import (
	"fmt"
	"os"

	"bookstore-management/bookstore"
)

const dbFile = "bookstore.db"

func main() {
	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	dbFiles := []string{dbFile, dbFile + "-shm", dbFile + "-wal"}
	for _, file := range dbFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	// Re-open the store; bootstrap recreates the schema and seed rows.
	mgr, err := bookstore.NewStoreManager(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	members, err := mgr.GetAllMembers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving members: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nSeeded members:")
	fmt.Printf("%-6s %-15s %-15s %s\n", "ID", "Name", "Phone", "Email")
	for _, m := range members {
		fmt.Printf("%-6s %-15s %-15s %s\n", m.ID, m.Name, m.Phone, m.Email)
	}

	books, err := mgr.GetAllBooks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nSeeded catalog:")
	fmt.Printf("%-6s %-30s %8s %8s\n", "ID", "Title", "Price", "Stock")
	for _, b := range books {
		fmt.Printf("%-6s %-30s %8d %8d\n", b.ID, b.Title, b.Price, b.Stock)
	}

	sales, err := mgr.ListSales()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sales: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSeeded sales: %d\n", len(sales))
	fmt.Println("\nReset complete!")
}
