package domain

import "time"

// Roles carried by principals and registry accounts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses used by the admin block/unblock surface.
const (
	AccountActive  = "active"
	AccountBlocked = "blocked"
)

// Principal is the currently authenticated identity held by the session
// holder and persisted as a single blob. The password field is a plaintext
// fixture stand-in, never a production credential.
type Principal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile,omitempty"`
	Role   string `json:"role"`
}

// Account is a registered user in the account registry.
type Account struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `json:"name" form:"name"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Mobile    string    `gorm:"size:32" json:"mobile" form:"mobile"`
	Password  string    `gorm:"size:64" json:"password,omitempty" form:"password"`
	Role      string    `gorm:"size:16;index" json:"role" form:"role"`
	Status    string    `gorm:"size:16" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Account) TableName() string {
	return "shop_account"
}

// Principal converts a registry account to its session representation,
// dropping the credential.
func (a Account) Principal() *Principal {
	return &Principal{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Mobile: a.Mobile,
		Role:   a.Role,
	}
}
