package model

import (
	"time"

	"hostel/shared/model"
)

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID          = "id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldNationality = "nationality"
	FieldDateOfBirth = "date_of_birth"
)

type Guest struct {
	ID                    string     `db:"id"`
	FirstName             string     `db:"first_name"`
	LastName              string     `db:"last_name"`
	Email                 string     `db:"email"`
	Phone                 string     `db:"phone"`
	Nationality           string     `db:"nationality"`
	IDType                string     `db:"id_type"`
	IDNumber              string     `db:"id_number"`
	DateOfBirth           *time.Time `db:"date_of_birth"`
	EmergencyContactName  string     `db:"emergency_contact_name"`
	EmergencyContactPhone string     `db:"emergency_contact_phone"`
	model.Metadata
}

func (g Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}
