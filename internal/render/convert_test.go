package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAllFields(t *testing.T) {
	doc, err := Convert(map[string]interface{}{
		"title":     "Wyldside",
		"color":     0x2ecc71,
		"url":       "https://netrunnerdb.com/en/card/01016",
		"thumbnail": "https://card-images.netrunnerdb.com/v2/large/01016.jpg",
		"field":     []string{"Location: Seedy", "When your turn begins, draw 2 cards"},
		"footer":    "Anarch • Core Set #16",
	})
	require.NoError(t, err)

	require.NotNil(t, doc.Title)
	assert.Equal(t, "Wyldside", *doc.Title)
	require.NotNil(t, doc.Color)
	assert.Equal(t, int64(0x2ecc71), *doc.Color)
	require.NotNil(t, doc.URL)
	require.NotNil(t, doc.Thumbnail)
	require.NotNil(t, doc.Field)
	assert.Equal(t, "Location: Seedy", doc.Field.Header)
	assert.Equal(t, "When your turn begins, draw 2 cards", doc.Field.Body)
	require.NotNil(t, doc.Footer)
	assert.Equal(t, "Anarch • Core Set #16", *doc.Footer)
}

func TestConvertPartialOutput(t *testing.T) {
	doc, err := Convert(map[string]interface{}{
		"title":  "Wyldside",
		"footer": "Criminal • Core Set",
	})
	require.NoError(t, err)

	require.NotNil(t, doc.Title)
	assert.Equal(t, "Wyldside", *doc.Title)
	require.NotNil(t, doc.Footer)
	assert.Equal(t, "Criminal • Core Set", *doc.Footer)
	assert.Nil(t, doc.Color)
	assert.Nil(t, doc.URL)
	assert.Nil(t, doc.Thumbnail)
	assert.Nil(t, doc.Field)
}

func TestConvertEmptyOutputIsValid(t *testing.T) {
	doc, err := Convert(map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, doc.Empty())
}

func TestConvertIgnoresUnrecognizedKeys(t *testing.T) {
	with, err := Convert(map[string]interface{}{
		"title":          "Corroder",
		"internal_state": []int{1, 2, 3},
		"faction":        "anarch",
	})
	require.NoError(t, err)

	without, err := Convert(map[string]interface{}{"title": "Corroder"})
	require.NoError(t, err)

	assert.Equal(t, without, with)
}

func TestConvertIsIdempotent(t *testing.T) {
	out := map[string]interface{}{
		"title": "Corroder",
		"color": int64(7),
		"field": []interface{}{"Program: Fracter", "1[credit]: Break barrier subroutine."},
	}

	first, err := Convert(out)
	require.NoError(t, err)
	second, err := Convert(out)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConvertTypeMismatches(t *testing.T) {
	tests := []struct {
		name string
		out  map[string]interface{}
		key  string
	}{
		{"color as string", map[string]interface{}{"color": "red"}, "color"},
		{"color as float", map[string]interface{}{"color": 3.14}, "color"},
		{"title as int", map[string]interface{}{"title": 42}, "title"},
		{"url as bool", map[string]interface{}{"url": true}, "url"},
		{"thumbnail as nil", map[string]interface{}{"thumbnail": nil}, "thumbnail"},
		{"footer as slice", map[string]interface{}{"footer": []string{"x"}}, "footer"},
		{"field as string", map[string]interface{}{"field": "oops"}, "field"},
		{"field too short", map[string]interface{}{"field": []string{"only header"}}, "field"},
		{"field too long", map[string]interface{}{"field": []interface{}{"a", "b", "c"}}, "field"},
		{"field non-string element", map[string]interface{}{"field": []interface{}{"a", 1}}, "field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.out)
			var convErr *ConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, tt.key, convErr.Key)
		})
	}
}

func TestConvertAcceptsIntKinds(t *testing.T) {
	for _, v := range []interface{}{int(1), int8(1), int16(1), int32(1), int64(1)} {
		doc, err := Convert(map[string]interface{}{"color": v})
		require.NoError(t, err)
		require.NotNil(t, doc.Color)
		assert.Equal(t, int64(1), *doc.Color)
	}
}
