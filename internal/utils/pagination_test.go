// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{}},
		{"?page=2&limit=5", PaginationParams{Page: 2, Limit: 5}},
		{"?page=0", PaginationParams{Page: 1, Limit: defaultPageLimit}},
		{"?limit=1000", PaginationParams{Page: 1, Limit: defaultPageLimit}},
		{"?page=x&limit=y", PaginationParams{Page: 1, Limit: defaultPageLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, paramsFor(tt.query))
		})
	}
}

func TestCreatePaginationResult(t *testing.T) {
	result := CreatePaginationResult([]int{1, 2}, 11, PaginationParams{Page: 2, Limit: 5})
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)

	all := CreatePaginationResult([]int{1, 2, 3}, 3, PaginationParams{})
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 3, all.Limit)
	assert.Equal(t, 1, all.TotalPages)

	empty := CreatePaginationResult([]int{}, 0, PaginationParams{})
	assert.Equal(t, 1, empty.TotalPages)
}
