// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyle-silver/jsonmap/internal/lang/value"
)

func TestDecode_AllKinds(t *testing.T) {
	v, err := value.Decode([]byte(`{"n":null,"b":true,"num":1.5,"s":"hi","l":[1,2],"o":{"k":"v"}}`))
	require.NoError(t, err)
	obj, ok := v.Object()
	require.True(t, ok)

	n, _ := obj.Get("n")
	assert.Equal(t, value.KindNull, n.Kind())

	b, _ := obj.Get("b")
	bv, _ := b.Bool()
	assert.True(t, bv)

	num, _ := obj.Get("num")
	nv, _ := num.Number()
	assert.Equal(t, 1.5, nv)
}

func TestObject_PreservesDeclarationOrder(t *testing.T) {
	obj, err := value.NewObject([]value.Member{
		{Key: "z", Value: value.Number(1)},
		{Key: "a", Value: value.Number(2)},
		{Key: "m", Value: value.Number(3)},
	})
	require.NoError(t, err)

	var keys []string
	for _, m := range obj.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestObject_DuplicateKeyIsError(t *testing.T) {
	_, err := value.NewObject([]value.Member{
		{Key: "a", Value: value.Number(1)},
		{Key: "a", Value: value.Number(2)},
	})
	require.Error(t, err)
	var dupErr *value.DuplicateKeyError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "a", dupErr.Key)
}

func TestMarshalJSON_PreservesKeyOrder(t *testing.T) {
	obj, err := value.NewObject([]value.Member{
		{Key: "z", Value: value.Number(1)},
		{Key: "a", Value: value.Number(2)},
	})
	require.NoError(t, err)

	b, err := value.FromObject(obj).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":2}`, string(b))
}

func TestMarshalJSON_NumberFormatting(t *testing.T) {
	tests := []struct {
		name string
		n    float64
		want string
	}{
		{"integer", 42, "42"},
		{"negative integer", -5, "-5"},
		{"fraction", 3.14, "3.14"},
		{"zero", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := value.Number(tt.n).MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestEqual(t *testing.T) {
	a, err := value.Decode([]byte(`{"x":[1,2,{"y":"z"}]}`))
	require.NoError(t, err)
	b, err := value.Decode([]byte(`{"x":[1,2,{"y":"z"}]}`))
	require.NoError(t, err)
	c, err := value.Decode([]byte(`{"x":[1,2,{"y":"different"}]}`))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
