package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_RoundTripKeepsOrderAndUnknownMembers(t *testing.T) {
	in := `{"sku":"A1","category":{"path":"Tools > Saws","extra":[1,2]},"price":9.5,"name":"Saw & blade"}`

	var obj Object
	require.NoError(t, json.Unmarshal([]byte(in), &obj))
	assert.Equal(t, []string{"sku", "category", "price", "name"}, obj.Keys())
	assert.Equal(t, "A1", obj.String("sku"))
	assert.Equal(t, "9.5", obj.String("price"))
	assert.Equal(t, "", obj.String("category"))

	out, err := MarshalNoEscape(&obj)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestObject_Set(t *testing.T) {
	obj := NewObject()
	require.NoError(t, obj.Set("b", "Kodu > Aed"))
	require.NoError(t, obj.Set("a", 1))
	require.NoError(t, obj.Set("b", "Kodu"))

	out, err := MarshalNoEscape(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"b":"Kodu","a":1}`, string(out))
	assert.True(t, obj.Has("a"))
	assert.Equal(t, 2, obj.Len())
}

func TestObject_Decode(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"ids":[1,2]}`), &obj))

	var ids []int
	found, err := obj.Decode("ids", &ids)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, ids)

	found, err = obj.Decode("missing", &ids)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestObject_KeysWithPathSyntax(t *testing.T) {
	obj := NewObject()
	keys := []string{"Mööbel > Toolid", "Nr. 1 * sale?", "a|b#c@d"}
	for i, key := range keys {
		require.NoError(t, obj.Set(key, i))
	}

	assert.Equal(t, keys, obj.Keys())
	for i, key := range keys {
		assert.Equal(t, int64(i), obj.Get(key).Int(), key)
	}
	assert.False(t, obj.Has("Nr"))

	out, err := MarshalNoEscape(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"Mööbel > Toolid":0,"Nr. 1 * sale?":1,"a|b#c@d":2}`, string(out))

	require.NoError(t, obj.Set("Mööbel > Toolid", "x"))
	out, err = MarshalNoEscape(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"Mööbel > Toolid":"x","Nr. 1 * sale?":1,"a|b#c@d":2}`, string(out))
}

func TestObject_SetPathEditsInPlace(t *testing.T) {
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(`{"sku":"A1","categories":[{"id":4,"name":"Saws","slug":"saws"}],"price":3}`), &obj))

	require.NoError(t, obj.SetPath("categories.0.name", "Cutting"))
	assert.Equal(t, "Cutting", obj.Path("categories.0.name").String())

	out, err := MarshalNoEscape(&obj)
	require.NoError(t, err)
	assert.Equal(t, `{"sku":"A1","categories":[{"id":4,"name":"Cutting","slug":"saws"}],"price":3}`, string(out))
}

func TestObject_RejectsNonObject(t *testing.T) {
	var obj Object
	assert.ErrorIs(t, json.Unmarshal([]byte(`[1,2]`), &obj), ErrNotObject)
	assert.NoError(t, json.Unmarshal([]byte(`null`), &obj))
	assert.Equal(t, 0, obj.Len())
}

func TestMarshalIndent(t *testing.T) {
	out, err := MarshalIndent(map[string]string{"Mööbel > Diivanid": "a&b"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Mööbel > Diivanid\": \"a&b\"\n}\n", string(out))
}
