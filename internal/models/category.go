package models

// Category identifiers form a fixed, closed set. The id-to-name mapping is a
// versioned contract: API consumers display CategoryName keyed by CategoryID.
const (
	CategoryAirtime       = 1
	CategoryBillPayment   = 2
	CategoryMoneyTransfer = 3
	CategorySchoolFees    = 4
	CategoryShopping      = 5
)

// DefaultCategoryID is the fallback when no signal places a transaction.
const DefaultCategoryID = CategoryMoneyTransfer

// Category pairs an identifier with its display name.
type Category struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Categories lists the closed category set in ascending id order. The order
// doubles as the tie-break order during score resolution.
var Categories = []Category{
	{ID: CategoryAirtime, Name: "Airtime Purchase"},
	{ID: CategoryBillPayment, Name: "Bill Payment"},
	{ID: CategoryMoneyTransfer, Name: "Money Transfer"},
	{ID: CategorySchoolFees, Name: "School Fees"},
	{ID: CategoryShopping, Name: "Shopping"},
}

// CategoryName returns the display name for an id, or "" for an unknown id.
func CategoryName(id int) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// ValidCategoryID reports whether id belongs to the closed category set.
func ValidCategoryID(id int) bool {
	return CategoryName(id) != ""
}
