package models

import "time"

// Record is a single dated income or expense entry. Its kind is not stored;
// it is read through the linked Category.
type Record struct {
	Base
	CategoryID  string    `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Description *string   `gorm:"size:255" json:"description,omitempty"`
	CreatedByID *string   `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
}

// Kind returns the kind of the linked category, or "" when it was not loaded.
func (r *Record) Kind() Kind {
	if r.Category == nil {
		return ""
	}
	return r.Category.Kind
}

// DescriptionText returns the description or an empty string.
func (r *Record) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}
