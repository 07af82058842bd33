package dto

import (
	"time"

	"hostel/shared/constant"
	"hostel/shared/model"
	"hostel/shared/timezone"
)

// Metadata is the audit trail attached to every admin facing record.
// CreatedBy holds the staff user id, or "system" for public bookings.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = formatTimestamp(src.CreatedAt)
	m.ModifiedAt = formatTimestamp(src.ModifiedAt)
	m.CreatedBy = src.CreatedBy
	m.ModifiedBy = src.ModifiedBy
}

// formatTimestamp renders t in the hostel timezone. Zero values render empty.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.DateFormat)
}
