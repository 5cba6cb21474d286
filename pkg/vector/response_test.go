package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseIsSuccessful(t *testing.T) {
	cases := map[int]bool{
		199: false,
		200: true,
		201: true,
		299: true,
		300: false,
		404: false,
		500: false,
	}
	for status, want := range cases {
		assert.Equal(t, want, NewResponse(status, nil, []byte(`{}`)).IsSuccessful(), "status %d", status)
	}
}

func TestResponseJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		resp := NewResponse(200, nil, []byte(`{"upsertedCount":2,"ids":["a"]}`))

		body, err := resp.JSON()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"upsertedCount": float64(2), "ids": []any{"a"}}, body)

		alias, err := resp.Body()
		require.NoError(t, err)
		assert.Equal(t, body, alias)
	})

	t.Run("scalar and array", func(t *testing.T) {
		body, err := NewResponse(200, nil, []byte(`[1,"x",null]`)).JSON()
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), "x", nil}, body)
	})

	t.Run("invalid payload", func(t *testing.T) {
		for _, raw := range []string{"", "not json", `{"a":`} {
			resp := NewResponse(502, nil, []byte(raw))

			_, err := resp.JSON()
			assert.ErrorIs(t, err, ErrDecode, "payload %q", raw)

			var decErr *DecodeError
			assert.ErrorAs(t, err, &decErr)
			assert.Equal(t, []byte(raw), resp.Raw())
		}
	})
}

func TestResponseDecode(t *testing.T) {
	t.Run("query result", func(t *testing.T) {
		resp := NewResponse(200, nil, []byte(`{
			"namespace": "ns",
			"matches": [
				{"id": "a", "score": 0.9, "values": [0.1, 0.2], "metadata": {"genre": "drama"}},
				{"id": "b", "score": 0.5}
			]
		}`))

		var result QueryResult
		require.NoError(t, resp.Decode(&result))
		assert.Equal(t, "ns", result.Namespace)
		require.Len(t, result.Matches, 2)
		assert.Equal(t, "a", result.Matches[0].ID)
		assert.InDelta(t, 0.9, result.Matches[0].Score, 1e-6)
		assert.Equal(t, []float32{0.1, 0.2}, result.Matches[0].Values)
		assert.Equal(t, "drama", result.Matches[0].Metadata["genre"])
		assert.Nil(t, result.Matches[1].Values)
	})

	t.Run("invalid payload", func(t *testing.T) {
		var result QueryResult
		err := NewResponse(200, nil, []byte(`<html>`)).Decode(&result)
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		var result QueryResult
		err := NewResponse(200, nil, []byte(`{"matches":"nope"}`)).Decode(&result)
		assert.ErrorIs(t, err, ErrDecode)
	})
}
