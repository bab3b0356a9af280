// Package lineitems keeps voucher line totals and the document grand total
// consistent while lines are added, edited, and removed.
package lineitems

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrLineNotFound = errors.New("line not found")

type Field string

const (
	FieldItemCode    Field = "item_code"
	FieldDescription Field = "description"
	FieldUnit        Field = "unit"
	FieldQuantity    Field = "quantity"
	FieldUnitPrice   Field = "unit_price"
)

// Line is the editable form of a voucher line. Total is always derived.
type Line struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	ItemCode    string          `json:"item_code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`

	// AvailableQty is the inventory quantity seen when the item was picked.
	// It drives shortage warnings only and is never used to authorize an issue.
	AvailableQty *decimal.Decimal `json:"available_qty,omitempty"`
}

// Snapshot is the inventory state copied onto a line when an item is picked.
type Snapshot struct {
	ItemID    string
	Code      string
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

type Shortage struct {
	LineID    string          `json:"line_id"`
	ItemID    string          `json:"item_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// Clamp maps negative values to zero.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Total is max(qty,0) * max(price,0).
func Total(qty, price decimal.Decimal) decimal.Decimal {
	return Clamp(qty).Mul(Clamp(price))
}

func Sum(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

// parseTolerant turns form input into a non-negative decimal; anything that
// does not parse becomes zero.
func parseTolerant(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return Clamp(d)
}

// Sheet is an ordered, never-empty list of lines.
type Sheet struct {
	lines []Line
	newID func() string
}

func NewSheet() *Sheet {
	s := &Sheet{newID: uuid.NewString}
	s.Add()
	return s
}

// FromLines builds a sheet from existing lines, recomputing every total.
// An empty input yields a single blank line.
func FromLines(lines []Line) *Sheet {
	s := &Sheet{newID: uuid.NewString}
	for _, l := range lines {
		if l.ID == "" {
			l.ID = s.newID()
		}
		l.Quantity = Clamp(l.Quantity)
		l.UnitPrice = Clamp(l.UnitPrice)
		l.Total = Total(l.Quantity, l.UnitPrice)
		s.lines = append(s.lines, l)
	}
	if len(s.lines) == 0 {
		s.Add()
	}
	return s
}

func (s *Sheet) blank() Line {
	return Line{
		ID:        s.newID(),
		Unit:      "pcs",
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
		Total:     decimal.Zero,
	}
}

func (s *Sheet) Add() Line {
	l := s.blank()
	s.lines = append(s.lines, l)
	return l
}

// Remove drops a line. Removing the last remaining line is a no-op and
// reports false.
func (s *Sheet) Remove(id string) bool {
	if len(s.lines) <= 1 {
		return false
	}
	for i, l := range s.lines {
		if l.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Sheet) index(id string) (int, error) {
	for i, l := range s.lines {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, ErrLineNotFound
}

// Update sets one field of a line; quantity and unit price edits recompute
// the line total.
func (s *Sheet) Update(id string, field Field, value string) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	l := &s.lines[i]
	switch field {
	case FieldQuantity:
		l.Quantity = parseTolerant(value)
	case FieldUnitPrice:
		l.UnitPrice = parseTolerant(value)
	case FieldItemCode:
		l.ItemCode = value
	case FieldDescription:
		l.Description = value
	case FieldUnit:
		l.Unit = value
	default:
		return errors.New("unknown line field: " + string(field))
	}
	l.Total = Total(l.Quantity, l.UnitPrice)
	return nil
}

// SelectItem copies an inventory snapshot onto the line.
func (s *Sheet) SelectItem(id string, snap Snapshot) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	l := &s.lines[i]
	avail := snap.Quantity
	l.ItemID = snap.ItemID
	l.ItemCode = snap.Code
	l.Description = snap.Name
	l.Unit = snap.Unit
	l.UnitPrice = Clamp(snap.UnitPrice)
	l.AvailableQty = &avail
	l.Total = Total(l.Quantity, l.UnitPrice)
	return nil
}

func (s *Sheet) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Sheet) Len() int { return len(s.lines) }

func (s *Sheet) GrandTotal() decimal.Decimal {
	return Sum(s.lines)
}

// Shortages lists lines whose quantity exceeds the available snapshot.
// They are warnings; submission is still allowed.
func (s *Sheet) Shortages() []Shortage {
	var out []Shortage
	for _, l := range s.lines {
		if l.AvailableQty == nil {
			continue
		}
		if l.Quantity.GreaterThan(*l.AvailableQty) {
			out = append(out, Shortage{
				LineID:    l.ID,
				ItemID:    l.ItemID,
				Requested: l.Quantity,
				Available: *l.AvailableQty,
			})
		}
	}
	return out
}
