package billing

import (
	"strconv"
	"strings"
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

type Status string

const (
	Pending Status = "pending"
	Paid    Status = "paid"
	Overdue Status = "overdue"
)

func (s Status) Label() string { return string(s) }

var statuses = []string{string(Pending), string(Paid), string(Overdue)}

// Item is one line of a bill. Total is quantity times unit price.
type Item struct {
	ID          int64
	BillID      int64
	Description string
	Quantity    int
	UnitPrice   interchange.Decimal
	Total       interchange.Decimal
}

func (i Item) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "id", Value: i.ID},
		{Name: "billId", Value: i.BillID},
		{Name: "description", Value: i.Description},
		{Name: "quantity", Value: i.Quantity},
		{Name: "unitPrice", Value: i.UnitPrice},
		{Name: "total", Value: i.Total},
	}
}

// Bill maps to the bills table; Items to bill_items.
type Bill struct {
	ID          int64
	PatientID   int64
	PatientName *string
	Date        interchange.Date
	Items       []Item
	Subtotal    interchange.Decimal
	Tax         interchange.Decimal
	Total       interchange.Decimal
	Status      Status
	DueDate     interchange.Date
	CreatedAt   time.Time

	// taxGiven and statusGiven record which optional members the client
	// supplied.
	taxGiven    bool
	statusGiven bool
}

func (b Bill) Fields() []interchange.Field {
	items := b.Items
	if items == nil {
		items = []Item{}
	}
	return []interchange.Field{
		{Name: "id", Value: b.ID},
		{Name: "patientId", Value: b.PatientID},
		{Name: "patientName", Value: b.PatientName},
		{Name: "date", Value: b.Date},
		{Name: "items", Value: items},
		{Name: "subtotal", Value: b.Subtotal},
		{Name: "tax", Value: b.Tax},
		{Name: "total", Value: b.Total},
		{Name: "status", Value: b.Status},
		{Name: "dueDate", Value: b.DueDate},
		{Name: "createdAt", Value: b.CreatedAt},
	}
}

// FromBody reads a bill from a decoded request body.
//
// Line items travel in the flat body as one "items" member of entries
// separated by ";", each "description|quantity|unitPrice". A body without
// "items" may describe a single line with "description", "quantity" and
// "unitPrice" members.
func FromBody(body interchange.Body) (*Bill, error) {
	b := &Bill{
		PatientName: body.Optional("patientName"),
		Status:      Pending,
	}
	var err error
	if body.Has("patientId") {
		if b.PatientID, err = body.Int64("patientId"); err != nil {
			return nil, err
		}
	}
	if body.Has("date") {
		if b.Date, err = body.Date("date"); err != nil {
			return nil, err
		}
	}
	if body.Has("dueDate") {
		if b.DueDate, err = body.Date("dueDate"); err != nil {
			return nil, err
		}
	}
	if body.Has("tax") {
		if b.Tax, err = body.Decimal("tax"); err != nil {
			return nil, err
		}
		b.taxGiven = true
	}
	if body.Has("status") {
		s, err := StatusFromBody(body)
		if err != nil {
			return nil, err
		}
		b.Status = s
		b.statusGiven = true
	}

	switch {
	case body.Has("items"):
		if b.Items, err = parseItems(body.String("items")); err != nil {
			return nil, err
		}
	case body.Has("description"):
		item := Item{Description: body.String("description"), Quantity: 1}
		if body.Has("quantity") {
			if item.Quantity, err = body.Int("quantity"); err != nil {
				return nil, err
			}
		}
		if item.UnitPrice, err = body.Decimal("unitPrice"); err != nil {
			return nil, err
		}
		b.Items = []Item{item}
	}
	return b, nil
}

func StatusFromBody(body interchange.Body) (Status, error) {
	s, err := body.Label("status", statuses...)
	return Status(s), err
}

var errItems = &interchange.FieldError{Key: "items", Reason: "must be entries of description|quantity|unitPrice separated by ;"}

func parseItems(s string) ([]Item, error) {
	var items []Item
	for _, entry := range strings.Split(s, ";") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return nil, errItems
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, errItems
		}
		price, err := interchange.ParseDecimal(parts[2])
		if err != nil {
			return nil, errItems
		}
		items = append(items, Item{Description: strings.TrimSpace(parts[0]), Quantity: qty, UnitPrice: price})
	}
	return items, nil
}
