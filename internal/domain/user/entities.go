package user

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleFarmer      Role = "FARMER"
	RoleBankOfficer Role = "BANK_OFFICER"
	RoleBuyer       Role = "BUYER"
	RoleAdmin       Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleBankOfficer, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// User is any registered actor. EntityName carries the bank name for
// officers and the business name for buyers; empty for the other roles.
type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`

	EmailOrPhone string `gorm:"size:255;uniqueIndex:ux_users_contact_active" json:"email_or_phone"`
	FullName     string `gorm:"size:255" json:"full_name"`
	Role         Role   `gorm:"type:varchar(16)" json:"role"`
	EntityName   string `gorm:"size:255" json:"entity_name,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
