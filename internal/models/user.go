// internal/models/user.go
package models

// User is the owner of an anonymous session. Rows are created the first
// time a client writes; email and company are filled in later from the
// profile settings and stay optional.
type User struct {
	BaseModel
	Email   string `json:"email,omitempty" gorm:"size:255;index"`
	Company string `json:"company,omitempty" gorm:"size:255"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:UserID"`
}
