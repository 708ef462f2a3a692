package router

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var resources = []string{"patients", "appointments", "users", "inventory", "billing"}

// For any numeric id the first registered matching pattern handles the
// request and receives the id as an integer.
func TestProperty_FirstRegisteredMatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		resource := rapid.SampledFrom(resources).Draw(t, "resource")
		id := rapid.Int64Min(0).Draw(t, "id")
		dupes := rapid.IntRange(1, 4).Draw(t, "dupes")

		var hits []int
		var gotID int64
		b := NewBuilder()
		for i := 0; i < dupes; i++ {
			i := i
			b.GET(fmt.Sprintf("/api/%s/{id}", resource), func(ctx context.Context, req *Request) (*Response, error) {
				hits = append(hits, i)
				gotID = req.Params.Int64("id")
				return OK(i), nil
			})
		}
		d := NewDispatcher(b.Build())

		resp := d.Dispatch(context.Background(), &Request{
			Method: http.MethodGet,
			Path:   "/api/" + resource + "/" + strconv.FormatInt(id, 10),
		})
		require.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, []int{0}, hits)
		assert.Equal(t, id, gotID)
	})
}

// Paths whose last segment is not all digits never reach an id route.
func TestProperty_NonNumericMisses(t *testing.T) {
	b := NewBuilder()
	for _, r := range resources {
		b.GET("/api/"+r+"/{id}", stub(r))
	}
	d := NewDispatcher(b.Build())

	rapid.Check(t, func(t *rapid.T) {
		resource := rapid.SampledFrom(resources).Draw(t, "resource")
		seg := rapid.StringMatching(`[0-9]*[a-zA-Z_.-][a-zA-Z0-9_.-]*`).Draw(t, "segment")

		resp := d.Dispatch(context.Background(), &Request{Method: http.MethodGet, Path: "/api/" + resource + "/" + seg})
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, `{"error":"Not Found"}`, resp.Body)
	})
}
