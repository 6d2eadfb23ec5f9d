package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resp2Reply mimics an FT.SEARCH array reply:
// [total, docID, [k, v, ...], docID, [k, v, ...], ...]
func resp2Reply() []interface{} {
	return []interface{}{
		int64(2),
		"person:1", []interface{}{"first_name", "Tim", "age", "40"},
		"person:2", []interface{}{"first_name", "Ann", "age", "35"},
	}
}

func TestDecodeMapsRESP2(t *testing.T) {
	rows, err := DecodeMaps(resp2Reply())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"first_name": "Tim", "age": "40"}, rows[0])
	assert.Equal(t, map[string]string{"first_name": "Ann", "age": "35"}, rows[1])
}

func TestDecodeMapsRESP3(t *testing.T) {
	reply := map[string]interface{}{
		"total_results": int64(1),
		"results": []interface{}{
			map[string]interface{}{
				"id": "person:1",
				"extra_attributes": map[interface{}]interface{}{
					"first_name": "Tim",
				},
			},
		},
	}
	rows, err := DecodeMaps(reply)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tim", rows[0]["first_name"])
}

// A LIMIT clause can return fewer documents than the total-match count in
// the reply head; decoding sizes from the documents actually present.
func TestDecodeMapsPartialPage(t *testing.T) {
	reply := []interface{}{
		int64(10),
		"person:1", []interface{}{"first_name", "Tim"},
	}
	rows, err := DecodeMaps(reply)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tim", rows[0]["first_name"])
}

func TestDecodeMapsEmpty(t *testing.T) {
	rows, err := DecodeMaps([]interface{}{int64(0)})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeMapsBadReply(t *testing.T) {
	_, err := DecodeMaps("nonsense")
	assert.Error(t, err)

	_, err = DecodeMaps([]interface{}{"not a count"})
	assert.Error(t, err)
}

type person struct {
	FirstName string  `searchql:"@first_name,TEXT"`
	Age       int     `searchql:"@age,NUMERIC"`
	Score     float64 `searchql:"@score,NUMERIC"`
	Active    bool    `searchql:"@active,TAG"`
}

func TestDecodeSliceStruct(t *testing.T) {
	reply := []interface{}{
		int64(1),
		"person:1", []interface{}{
			"first_name", "Tim",
			"age", "40",
			"score", "1.5",
			"active", "true",
		},
	}
	people, err := DecodeSlice[person](reply)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, person{FirstName: "Tim", Age: 40, Score: 1.5, Active: true}, people[0])
}

func TestDecodeSliceMap(t *testing.T) {
	rows, err := DecodeSlice[map[string]string](resp2Reply())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[1]["first_name"])
}

func TestToStr(t *testing.T) {
	assert.Equal(t, "x", toStr("  x "))
	assert.Equal(t, "7", toStr(int64(7)))
	assert.Equal(t, "1.5", toStr(1.5))
	assert.Equal(t, "bytes", toStr([]byte(" bytes")))
}
