package models

import "github.com/google/uuid"

// CustomerModel is the slice of the customers table this service reads.
// Customers are maintained by the back-office CRUD service.
type CustomerModel struct {
	BaseModel
	Name string `gorm:"size:200;not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// SupplierModel is the slice of the suppliers table this service reads.
type SupplierModel struct {
	BaseModel
	Name string `gorm:"size:200;not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// UserModel is the slice of the users table this service reads.
type UserModel struct {
	BaseModel
	Username string `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// UserPermissionModel grants one permission slug to one user.
type UserPermissionModel struct {
	UserID uuid.UUID `gorm:"size:36;primaryKey"`
	Slug   string    `gorm:"size:100;primaryKey"`
}

// TableName returns the table name for GORM
func (UserPermissionModel) TableName() string {
	return "user_permissions"
}
