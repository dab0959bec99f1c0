package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Skip  string `json:"-"`
	Plain int
}

func TestSplitKeepsUnknownMembers(t *testing.T) {
	var s sample
	extra, err := Split([]byte(`{"id":"a","Plain":2,"future":{"x":1},"flag":true}`), &s)
	require.NoError(t, err)

	assert.Equal(t, sample{ID: "a", Plain: 2}, s)
	assert.Len(t, extra, 2)
	assert.JSONEq(t, `{"x":1}`, string(extra["future"]))
	assert.JSONEq(t, `true`, string(extra["flag"]))
}

func TestSplitWithoutUnknownMembers(t *testing.T) {
	var s sample
	extra, err := Split([]byte(`{"id":"a"}`), &s)
	require.NoError(t, err)
	assert.Nil(t, extra)
}

func TestMergeNeverOverridesFields(t *testing.T) {
	out, err := Merge(sample{ID: "a"}, Extra{
		"id":     json.RawMessage(`"other"`),
		"name":   json.RawMessage(`"ignored"`),
		"future": json.RawMessage(`[1]`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","Plain":0,"future":[1]}`, string(out))
}
