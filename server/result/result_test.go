package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name          string
		r             Result
		expectStatus  int
		expectBody    string
		expectHeaders map[string]string
	}{
		{
			name:         "ok with body",
			r:            OK(map[string]int{"count": 2}),
			expectStatus: http.StatusOK,
			expectBody:   `{"count":2}`,
			expectHeaders: map[string]string{
				"Content-Type": "application/json",
			},
		},
		{
			name:         "no content",
			r:            NoContent("deleted %s", "thing"),
			expectStatus: http.StatusNoContent,
			expectBody:   "",
		},
		{
			name:         "bad request",
			r:            BadRequest("grammar: property is empty", "empty grammar"),
			expectStatus: http.StatusBadRequest,
			expectBody:   `{"error":"grammar: property is empty","status":400}`,
		},
		{
			name:         "unauthorized sets authenticate header",
			r:            Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectHeaders: map[string]string{
				"WWW-Authenticate": `Bearer realm="ellone server", charset="utf-8"`,
			},
		},
		{
			name:         "unprocessable entity keeps given body",
			r:            UnprocessableEntity(map[string]string{"nonterminal": "S"}),
			expectStatus: http.StatusUnprocessableEntity,
			expectBody:   `{"nonterminal":"S"}`,
		},
		{
			name:         "text error",
			r:            TextErr(http.StatusInternalServerError, "An internal server error occurred", "panic"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "An internal server error occurred",
			expectHeaders: map[string]string{
				"Content-Type": "text/plain; charset=utf-8",
			},
		},
		{
			name:         "redirection",
			r:            Redirection("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectHeaders: map[string]string{
				"Location": "/api/v1/info",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := httptest.NewRecorder()

			tc.r.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHeaders {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_Result_InternalMsg(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("OK", OK(nil).InternalMsg)
	assert.Equal("got grammar expr", OK(nil, "got grammar %s", "expr").InternalMsg)
	assert.True(UnprocessableEntity(nil).IsErr)
}

func Test_Result_WithHeader_doesNotShare(t *testing.T) {
	assert := assert.New(t)
	base := OK(nil).WithHeader("X-One", "1")

	a := base.WithHeader("X-Two", "2")
	b := base.WithHeader("X-Three", "3")

	assert.Len(a.hdrs, 2)
	assert.Len(b.hdrs, 2)
	assert.Equal("X-Two", a.hdrs[1][0])
}
