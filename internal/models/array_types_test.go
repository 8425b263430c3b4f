package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArray_ScanPostgresLiteral(t *testing.T) {
	var a IntArray
	require.NoError(t, a.Scan([]byte("{1,3,5}")))
	assert.Equal(t, IntArray{1, 3, 5}, a)
}

func TestIntArray_ScanEmptyArray(t *testing.T) {
	var a IntArray
	require.NoError(t, a.Scan([]byte("{}")))
	assert.Empty(t, a)
}

func TestIntArray_ScanNull(t *testing.T) {
	a := IntArray{9}
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)
}

func TestIntArray_ValueRoundTrip(t *testing.T) {
	v, err := IntArray{0, 2, 6}.Value()
	require.NoError(t, err)

	var back IntArray
	require.NoError(t, back.Scan(v))
	assert.Equal(t, IntArray{0, 2, 6}, back)
}

func TestIntArray_NilValue(t *testing.T) {
	v, err := IntArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestIntArray_Contains(t *testing.T) {
	a := IntArray{1, 3}
	assert.True(t, a.Contains(3))
	assert.False(t, a.Contains(0))
}
