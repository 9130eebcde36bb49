package params

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-backoffice/internal/domain/apperr"
)

func ctx(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPagingDefaults(t *testing.T) {
	p, err := Paging(ctx("/x"))
	require.NoError(t, err)
	assert.Equal(t, Page{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p, err = Paging(ctx("/x?page=3&limit=25"))
	require.NoError(t, err)
	assert.Equal(t, 50, p.Offset())
}

func TestPagingRejectsOutOfRange(t *testing.T) {
	for _, q := range []string{"?page=0", "?limit=0", "?limit=101", "?page=abc"} {
		_, err := Paging(ctx("/x" + q))
		assert.True(t, apperr.Is(err, apperr.Validation), q)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("id", "6F9619FF-8B86-D011-B42D-00C04FC964FF")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	_, err = ParseID("id", "42")
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestContains(t *testing.T) {
	assert.Equal(t, "%bali%", Contains(" bali "))
	assert.Equal(t, `%50\% off\_x%`, Contains("50% off_x"))
}
