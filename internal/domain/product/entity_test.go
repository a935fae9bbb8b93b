package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIDAcceptsBothWireShapes(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Mug"}`), &p))
	assert.Equal(t, StringID("7"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc-1","name":"Mug"}`), &p))
	assert.Equal(t, StringID("abc-1"), p.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"Mug"}`), &p))
	assert.Equal(t, StringID(""), p.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"id":{"v":1}}`), &p))
}
