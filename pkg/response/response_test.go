package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-terms/internal/domain/apperr"
)

func TestFromError(t *testing.T) {
	status, body := FromError(apperr.Conflict("Email already exists"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already exists", body.Error)

	status, body = FromError(errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body.Error)

	status, body = FromError(apperr.Wrap(apperr.KindInternal, "db exploded", errors.New("x")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body.Error)
}

func TestFail_WritesDetailsAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, apperr.Invalid("First name is required", map[string]string{"firstName": "First name is required"}))

	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "First name is required", body.Error)
	assert.Equal(t, "First name is required", body.Details["firstName"])
}
