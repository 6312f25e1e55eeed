package models

// Kind is the sign of a category: money coming in or going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Label is the localized name shown to users and written to CSV exports.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Entrada"
	case KindExpense:
		return "Saída"
	}
	return string(k)
}

// Category is a named bucket for records. Name is the natural key.
type Category struct {
	Base
	Name        string  `gorm:"size:100;not null;uniqueIndex:idx_categories_name" json:"name"`
	Kind        Kind    `gorm:"size:10;not null" json:"kind"`
	Description *string `json:"description,omitempty"`
}
