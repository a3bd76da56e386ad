package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, DefaultLimit, 0},
		{"explicit", "page=3&limit=20", 3, 20, 40},
		{"negative page", "page=-1&limit=10", 1, 10, 0},
		{"zero limit", "page=2&limit=0", 2, DefaultLimit, DefaultLimit},
		{"limit capped", "page=1&limit=1000", 1, MaxLimit, 0},
		{"garbage", "page=abc&limit=xyz", 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := parseQuery(t, tt.query)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset)
		})
	}
}
