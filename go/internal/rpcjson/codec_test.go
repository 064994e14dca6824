package rpcjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(sample{Name: "motion", Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"motion","count":2}`, string(data))

	var out sample
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, sample{Name: "motion", Count: 2}, out)

	require.NoError(t, c.Unmarshal(nil, &out), "empty body decodes to the zero request")
	assert.Error(t, c.Unmarshal([]byte("{"), &out))
}
