package dto_test

import (
	"testing"

	"hostel/shared/dto"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal with table",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "room_bookings"},
			wantWhere: "room_bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "strictly less with arg name",
			filter:    dto.Filter{ArgName: "range_end", Field: "check_in_date", Value: "2024-06-03", Operator: dto.FilterOperatorLess},
			wantWhere: "check_in_date < :range_end",
			wantArgs:  map[string]any{"range_end": "2024-06-03"},
		},
		{
			name:      "strictly greater",
			filter:    dto.Filter{Field: "check_out_date", Value: "2024-06-01", Operator: dto.FilterOperatorGreater},
			wantWhere: "check_out_date > :check_out_date",
			wantArgs:  map[string]any{"check_out_date": "2024-06-01"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "in with empty slice matches nothing",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "in with scalar",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status)",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "like is case insensitive",
			filter:    dto.Filter{Field: "name", Value: "Dorm", Operator: dto.FilterOperatorLike, Table: "rooms"},
			wantWhere: "LOWER(rooms.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%Dorm%"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "name", Value: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "max_uses", Operator: dto.FilterIsNull},
			wantWhere: "max_uses IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "max_uses", Operator: dto.FilterIsNull},
					dto.Filter{Field: "used_count < max_uses", Operator: dto.FilterPlainQuery, Value: "used_count < max_uses"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (max_uses IS NULL OR (used_count < max_uses)))", where)
	assert.Equal(t, map[string]any{"room_id": "r1"}, args)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterGroup_DefaultsToAndAndSkipsEmpty(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "status", Value: "maintenance", Operator: dto.FilterOperatorNotEq, Table: "rooms"},
			dto.Filter{Field: "name", Operator: "bogus"},
			&dto.Filter{Field: "capacity", Value: 2, Operator: dto.FilterOperatorGreaterEq, Table: "rooms"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.status != :status AND rooms.capacity >= :capacity)", where)
	assert.Equal(t, map[string]any{"status": "maintenance", "capacity": 2}, args)
}
