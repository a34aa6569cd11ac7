package response

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apierr "github.com/platewise/platewise/pkg/errors"
)

func TestListAndQueueEnvelopes(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	items := []map[string]any{{"id": 1}, {"id": 2}}
	List(c, 2, items, true)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	require.Equal(t, float64(2), body["number"]) // json numbers decode to float64
	require.Equal(t, true, body["more"])
	require.Contains(t, body, "obj")

	// The queue envelope keeps its older "pageleft" flag name.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Queue(c, 1, items[:1], false)

	require.Equal(t, 200, w.Code)
	var queueBody map[string]any
	err = json.Unmarshal(w.Body.Bytes(), &queueBody)
	require.NoError(t, err)
	require.Equal(t, float64(1), queueBody["number"])
	require.Equal(t, false, queueBody["pageleft"])
	require.NotContains(t, queueBody, "more")
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, 400, "bad request")

	require.Equal(t, 400, w.Code)
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	require.Equal(t, "bad request", body["message"])
	require.Len(t, body, 1)
}

func TestFailMapsTaxonomy(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apierr.ErrRateLimited, 400, "only one review per restaurant every 24 hours"},
		{fmt.Errorf("%w: text is required", apierr.ErrValidation), 400, "invalid request"},
		{apierr.ErrUnauthorized, 401, "unauthorized"},
		{apierr.ErrNotFound, 404, "resource not found"},
		{fmt.Errorf("%w: mongo down", apierr.ErrInternal), 500, "internal server error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Fail(c, tc.err)

		require.Equal(t, tc.status, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, tc.message, body["message"])
	}
}
