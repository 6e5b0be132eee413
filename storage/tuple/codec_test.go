package tuple

import (
	"testing"

	"corevault/catalog"
	"corevault/storage/page"
	"corevault/types"

	"github.com/stretchr/testify/require"
)

func testSchema() *catalog.Schema {
	return catalog.NewSchema("widgets", []catalog.Column{
		catalog.NewIntegerColumn("id"),
		catalog.NewVarcharColumn("name", 16),
		catalog.NewIntegerColumn("qty"),
	})
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	schema := testSchema()
	values := []types.Value{types.NewInteger(7), types.NewVarchar("widget"), types.NewInteger(42)}
	nulls := []bool{false, false, false}

	buf, err := Serialize(schema, values, nulls)
	require.NoError(t, err)
	require.Len(t, buf, int(schema.StorageSize()))

	gotValues, gotNulls, err := Deserialize(schema, buf)
	require.NoError(t, err)
	require.Equal(t, nulls, gotNulls)
	for i := range values {
		require.True(t, values[i].Equals(gotValues[i]), "column %d mismatch", i)
	}
}

func TestSerializeNullColumn(t *testing.T) {
	schema := testSchema()
	values := []types.Value{types.NewInteger(1), {}, types.NewInteger(2)}
	nulls := []bool{false, true, false}

	buf, err := Serialize(schema, values, nulls)
	require.NoError(t, err)

	_, gotNulls, err := Deserialize(schema, buf)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false}, gotNulls)
}

func TestSerializeVarcharTooLongFails(t *testing.T) {
	schema := testSchema()
	values := []types.Value{types.NewInteger(1), types.NewVarchar("this name is way too long"), types.NewInteger(2)}
	nulls := []bool{false, false, false}

	_, err := Serialize(schema, values, nulls)
	require.Error(t, err)
}

func TestSerializeWrongColumnCountFails(t *testing.T) {
	schema := testSchema()
	_, err := Serialize(schema, []types.Value{types.NewInteger(1)}, []bool{false})
	require.Error(t, err)
}

func TestDeserializeWrongBufferSizeFails(t *testing.T) {
	schema := testSchema()
	_, _, err := Deserialize(schema, make([]byte, 3))
	require.Error(t, err)
}

func TestFixedStorageSizeRegardlessOfContent(t *testing.T) {
	schema := testSchema()

	short, err := Serialize(schema,
		[]types.Value{types.NewInteger(1), types.NewVarchar("a"), types.NewInteger(2)},
		[]bool{false, false, false})
	require.NoError(t, err)

	long, err := Serialize(schema,
		[]types.Value{types.NewInteger(1), types.NewVarchar("sixteen-byte-nam"), types.NewInteger(2)},
		[]bool{false, false, false})
	require.NoError(t, err)

	require.Equal(t, len(short), len(long))
}

func TestTupleNewCopiesData(t *testing.T) {
	src := []byte("owned")
	tup := New(src)
	src[0] = 'X'
	require.Equal(t, []byte("owned"), tup.Data())
}

func TestWithRIDDoesNotMutateOriginal(t *testing.T) {
	tup := New([]byte("abc"))
	withRID := tup.WithRID(page.RID{PageID: 1, SlotID: 2})
	require.False(t, tup.RID().IsValid())
	require.True(t, withRID.RID().IsValid())
}
