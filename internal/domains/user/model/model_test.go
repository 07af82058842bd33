package model_test

import (
	"testing"

	"hostel/internal/domains/user/model"
	"hostel/shared/constant"

	"github.com/stretchr/testify/assert"
)

func TestCanManage(t *testing.T) {
	tests := []struct {
		level  string
		target string
		want   bool
	}{
		{constant.RoleSuperAdmin, constant.RoleAdmin, true},
		{constant.RoleSuperAdmin, constant.RoleSuperAdmin, false},
		{constant.RoleAdmin, constant.RoleStaff, true},
		{constant.RoleAdmin, constant.RoleAdmin, false},
		{constant.RoleStaff, constant.RoleStaff, false},
		{"", constant.RoleStaff, false},
		{constant.RoleStaff, "unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.level+">"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanManage(tt.level, tt.target))
		})
	}
}
