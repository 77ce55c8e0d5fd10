package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PageQuery
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", PageQuery{}, 1, 20, 0},
		{"limit capped", PageQuery{Page: 3, Limit: 500}, 3, 100, 200},
		{"huge page", PageQuery{Page: math.MaxInt, Limit: 100}, math.MaxInt / 100, 100, (math.MaxInt/100 - 1) * 100},
		{"huge page limit one", PageQuery{Page: math.MaxInt, Limit: 1}, math.MaxInt, 1, math.MaxInt - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in.Normalize(20, 100)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset())
			assert.GreaterOrEqual(t, q.Offset(), 0)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
