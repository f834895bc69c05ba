package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAcceptsStringOrNumber(t *testing.T) {
	for in, want := range map[string]Text{
		`"12.50"`: "12.50",
		`12.5`:    "12.5",
		`12.50`:   "12.50",
		`"cheap"`: "cheap",
	} {
		var got Text
		require.NoError(t, json.Unmarshal([]byte(in), &got), in)
		assert.Equal(t, want, got, in)
	}

	var bad Text
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestFoodPriceMarshalsAsString(t *testing.T) {
	var f Food
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Apple","descr":"red","price":3,"qty":null}`), &f))
	assert.Nil(t, f.Qty)

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":"3"`)
	assert.Contains(t, string(b), `"qty":null`)
}

func TestSearchText(t *testing.T) {
	l := Lead{LeadName: Ptr("Banana Corp"), LeadEmail: Ptr("info@banana.test")}
	assert.Equal(t, "Banana Corp info@banana.test", l.SearchText())

	p := Product{Title: Ptr("Mug"), Price: Ptr(4.5)}
	assert.Equal(t, "Mug 4.50", p.SearchText())
}
