package model

import (
	"time"

	"hostel/shared/constant"
	"hostel/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldLevel     = "level"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Level     string     `db:"level"`
	FullName  *string    `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

// CanManage reports whether a user at level may create or modify accounts at target.
func CanManage(level, target string) bool {
	return rank(level) > rank(target)
}

func rank(level string) int {
	switch level {
	case constant.RoleSuperAdmin:
		return 3
	case constant.RoleAdmin:
		return 2
	case constant.RoleStaff:
		return 1
	default:
		return 0
	}
}
