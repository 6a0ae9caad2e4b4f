package bookstore

import (
	"errors"
	"fmt"
	"strings"
)

// RuleError is a business-rule violation: bad input, an unknown reference,
// or insufficient stock. Its message is safe to show to the operator.
// Storage failures are ordinary wrapped errors, never RuleErrors.
type RuleError struct {
	msg string
}

func (e *RuleError) Error() string { return e.msg }

func ruleErrorf(format string, args ...any) *RuleError {
	return &RuleError{msg: fmt.Sprintf(format, args...)}
}

// IsRuleError reports whether err is a business-rule violation rather
// than a storage failure.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

// saleLookup is the slice of the store the validation chain reads from.
// *Database implements it; tests substitute fakes.
type saleLookup interface {
	MemberExists(id string) (bool, error)
	FindBook(id string) (*Book, error)
}

// saleDraft carries a candidate sale through the validation chain.
// checkBook resolves the referenced book onto the draft so later checks
// and the transaction executor don't look it up again.
type saleDraft struct {
	store    saleLookup
	date     string
	memberID string
	bookID   string
	qty      int64
	discount int64

	book *Book
}

// saleCheck is one rule in the validation chain.
type saleCheck func(*saleDraft) error

// saleChecks run in this exact order and short-circuit on the first failure.
var saleChecks = []saleCheck{
	checkDate,
	checkMember,
	checkBook,
	checkQty,
	checkDiscount,
	checkStock,
}

func validateSale(d *saleDraft) error {
	for _, check := range saleChecks {
		if err := check(d); err != nil {
			return err
		}
	}
	return nil
}

// checkDate accepts any 10-character string with exactly two dashes.
// Calendar validity is deliberately not checked.
func checkDate(d *saleDraft) error {
	if len(d.date) != 10 || strings.Count(d.date, "-") != 2 {
		return ruleErrorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func checkMember(d *saleDraft) error {
	ok, err := d.store.MemberExists(d.memberID)
	if err != nil {
		return fmt.Errorf("look up member %s: %w", d.memberID, err)
	}
	if !ok {
		return ruleErrorf("unknown member id %s", d.memberID)
	}
	return nil
}

func checkBook(d *saleDraft) error {
	book, err := d.store.FindBook(d.bookID)
	if err != nil {
		return fmt.Errorf("look up book %s: %w", d.bookID, err)
	}
	if book == nil {
		return ruleErrorf("unknown book id %s", d.bookID)
	}
	d.book = book
	return nil
}

func checkQty(d *saleDraft) error {
	if d.qty <= 0 {
		return ruleErrorf("quantity must be a positive integer")
	}
	return nil
}

func checkDiscount(d *saleDraft) error {
	if d.discount < 0 {
		return ruleErrorf("discount cannot be negative")
	}
	return nil
}

func checkStock(d *saleDraft) error {
	if d.qty > d.book.Stock {
		return ruleErrorf("insufficient stock (current stock: %d)", d.book.Stock)
	}
	return nil
}
