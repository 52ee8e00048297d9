package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Well-known category names. Category stays free text; anything outside this
// set is grouped under its own literal name by the aggregator.
const (
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryShopping      = "shopping"
	CategoryBills         = "bills"
	CategoryEntertainment = "entertainment"
	CategoryHealth        = "health"
	CategoryEducation     = "education"
	CategoryTravel        = "travel"
	CategoryOther         = "other"
)

type (
	// Kind names the transaction direction. It replaces the sign convention
	// of the amount column: Amount is always a positive magnitude.
	Kind string

	// Date is a calendar date. The time component is always midnight UTC and
	// never participates in comparisons.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string    `json:"id,omitempty"`
		Date        Date      `json:"date"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount_cents"`
		Kind        Kind      `json:"kind"`
		Category    string    `json:"category"`
		Timestamp   time.Time `json:"timestamp"`
	}

	// Budget is the monthly budget figure, overwritten wholesale by settings.
	Budget struct {
		Total Money `json:"total_budget_cents"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// KnownCategories returns the fixed category set in display order.
func KnownCategories() []string {
	return []string{
		CategoryFood, CategoryTransport, CategoryShopping, CategoryBills,
		CategoryEntertainment, CategoryHealth, CategoryEducation,
		CategoryTravel, CategoryOther,
	}
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k Kind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(k))
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// SignedCents returns the amount with the wire-format sign convention:
// negative for expenses, positive for income.
func (t Transaction) SignedCents() int64 {
	if t.Kind == KindExpense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

// Fingerprint is the structural-equality dedup key: two records with the same
// fingerprint are the same transaction regardless of which store they came
// from. The generated ID is deliberately excluded so that a locally created
// record matches its mirrored copy read back from the remote sheet.
func (t Transaction) Fingerprint() string {
	ts := ""
	if !t.Timestamp.IsZero() {
		ts = t.Timestamp.UTC().Format(time.RFC3339)
	}
	return strings.Join([]string{
		t.Date.String(),
		t.Description,
		fmt.Sprintf("%d", t.SignedCents()),
		t.Category,
		ts,
	}, "|")
}
