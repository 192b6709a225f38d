package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Pagination
		wantPage  int
		wantLimit int
	}{
		{"defaults applied", Pagination{}, 1, DefaultPageLimit},
		{"negative page clamped", Pagination{Page: -3, Limit: 10}, 1, 10},
		{"limit capped", Pagination{Page: 2, Limit: 500}, 2, MaxPageLimit},
		{"valid values kept", Pagination{Page: 4, Limit: 25}, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestValidMatchStatus(t *testing.T) {
	for _, s := range []MatchStatus{
		MatchStatusNew, MatchStatusReviewed, MatchStatusShortlisted,
		MatchStatusRejected, MatchStatusInterviewed, MatchStatusOffered,
	} {
		assert.True(t, ValidMatchStatus(s), "expected %q to be valid", s)
	}

	assert.False(t, ValidMatchStatus("archived"))
	assert.False(t, ValidMatchStatus(""))
}

func TestUserRoleHelpers(t *testing.T) {
	recruiter := &User{Role: RoleRecruiter}
	admin := &User{Role: RoleAdmin}
	plain := &User{Role: RoleUser}

	assert.True(t, recruiter.IsRecruiter())
	assert.False(t, recruiter.IsAdmin())

	assert.True(t, admin.IsRecruiter())
	assert.True(t, admin.IsAdmin())

	assert.False(t, plain.IsRecruiter())
	assert.False(t, plain.IsAdmin())
}
