package shared_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hostel/shared"
	"hostel/shared/cache/mocks"
	"hostel/shared/constant"
	"hostel/shared/dto"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		input string
		want  *bool
	}{
		{input: "", want: nil},
		{input: "true", want: &yes},
		{input: "1", want: &yes},
		{input: "T", want: &yes},
		{input: "false", want: &no},
		{input: "0", want: &no},
		{input: "FALSE", want: &no},
		{input: "active", want: nil},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	got, err := shared.ConvertStringToInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	_, err = shared.ConvertStringToInt("twelve")
	assert.Error(t, err)
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 10, want: 1},
		{total: 5, limit: 0, want: 1},
		{total: 10, limit: 10, want: 1},
		{total: 11, limit: 10, want: 2},
		{total: 95, limit: 20, want: 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.total, tt.limit), func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRoom struct {
		Name     string  `db:"name"`
		Capacity int     `db:"capacity"`
		Floor    *int    `db:"floor"`
		Notes    *string `db:"notes"`
		Internal string  `db:"-"`
		Untagged string
	}

	ground := 0

	fields := shared.TransformFields(updateRoom{
		Name:     "Sunrise Dorm",
		Floor:    &ground,
		Internal: "skip",
		Untagged: "skip",
	}, "user-1")

	assert.Equal(t, "Sunrise Dorm", fields["name"])
	assert.Equal(t, &ground, fields["floor"])
	assert.NotContains(t, fields, "capacity")
	assert.NotContains(t, fields, "notes")
	assert.NotContains(t, fields, "-")
	assert.Equal(t, "user-1", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
	assert.Len(t, fields, 4)

	fromPointer := shared.TransformFields(&updateRoom{Capacity: 8}, "user-2")
	assert.Equal(t, 8, fromPointer["capacity"])
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("room-1", "id", "rooms")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "room-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "rooms", shared.BuildCacheKey("rooms"))
	assert.Equal(t, "rooms:detail:room-1", shared.BuildCacheKey("rooms", "detail", "room-1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	byStatus := func(status string) dto.FilterGroup {
		return dto.FilterGroup{Filters: []any{dto.Filter{Field: "status", Value: status, Operator: dto.FilterOperatorEq}}}
	}

	first := shared.BuildCacheKeyWithQuery("bookings", params, byStatus("pending"))
	again := shared.BuildCacheKeyWithQuery("bookings", params, byStatus("pending"))
	other := shared.BuildCacheKeyWithQuery("bookings", params, byStatus("confirmed"))
	nextPage := shared.BuildCacheKeyWithQuery("bookings", dto.QueryParams{Page: 2, Limit: 10}, byStatus("pending"))

	assert.True(t, strings.HasPrefix(first, "bookings:"))
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, nextPage)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "offers"+constant.Asterix).Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "offers")

	mockCache.EXPECT().Clear(gomock.Any(), "rooms"+constant.Asterix).Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "rooms")
}

func TestPostgresErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert room: %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation})
	foreign := fmt.Errorf("delete room: %w", &pq.Error{Code: constant.PqErrorCodeFkViolation})

	assert.True(t, shared.IsUniqueViolation(unique))
	assert.False(t, shared.IsUniqueViolation(foreign))
	assert.True(t, shared.IsForeignKeyViolation(foreign))
	assert.False(t, shared.IsForeignKeyViolation(errors.New("plain")))
}

func TestNewObjectName(t *testing.T) {
	withExt := shared.NewObjectName("bunk.photo.JPG")
	assert.True(t, strings.HasSuffix(withExt, ".JPG"))
	assert.Len(t, withExt, 36+len(".JPG"))

	assert.Len(t, shared.NewObjectName("noext"), 36)
}
