package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	HandleError(c, err)
	return w
}

func TestHandleError_AppError(t *testing.T) {
	w := serve(ErrDuplicateFollowRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Message string `json:"message"`
		Error   struct {
			Code   string `json:"code"`
			Domain string `json:"domain"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Follow request already sent", body.Message)
	assert.Equal(t, string(CodeDuplicateRequest), body.Error.Code)
	assert.Equal(t, "follow", body.Error.Domain)
}

func TestHandleError_PlainErrorBecomes500(t *testing.T) {
	SetDebug(false)
	w := serve(errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), string(CodeInternalError))
}

func TestWrappedAppErrorKeepsIdentity(t *testing.T) {
	wrapped := ErrJobNotFound.WithError(errors.New("record not found"))

	assert.True(t, Is(wrapped, ErrJobNotFound))
	assert.False(t, Is(wrapped, ErrGroupNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
	assert.Nil(t, ErrJobNotFound.Err, "predefined error must stay untouched")
}
