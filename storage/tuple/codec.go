package tuple

import (
	"encoding/binary"
	"fmt"

	"corevault/catalog"
	"corevault/types"
)

// Serialize builds a schema.StorageSize()-byte buffer laid out as
// null_bitmap | col_0 | col_1 | ... | col_{C-1}, per the storage core's
// tuple binary layout: bit i of the bitmap is set iff nulls[i] is true
// (values[i] is then ignored), and every column — including Varchar — occupies its
// fixed schema-defined region so a tuple's storage size never depends on
// its content. A Varchar value longer than its column's declared maximum
// is a caller error.
func Serialize(schema *catalog.Schema, values []types.Value, nulls []bool) ([]byte, error) {
	if len(values) != schema.ColumnCount() || len(nulls) != schema.ColumnCount() {
		return nil, fmt.Errorf("tuple: expected %d values, got %d", schema.ColumnCount(), len(values))
	}

	buf := make([]byte, schema.StorageSize())

	for i := 0; i < schema.ColumnCount(); i++ {
		if nulls[i] {
			buf[i/8] |= 1 << uint(i%8)
			continue
		}

		col := schema.Column(i)
		region := buf[col.Offset:]

		switch col.Type {
		case types.Integer:
			binary.LittleEndian.PutUint32(region, uint32(values[i].AsInt32()))
		case types.Varchar:
			payload := []byte(values[i].AsString())
			if uint32(len(payload)) > col.StorageSize {
				return nil, fmt.Errorf("tuple: column %q value length %d exceeds max %d",
					col.Name, len(payload), col.StorageSize)
			}
			binary.LittleEndian.PutUint32(region, uint32(len(payload)))
			copy(region[4:], payload)
		default:
			return nil, fmt.Errorf("tuple: column %q has unsupported type %d", col.Name, col.Type)
		}
	}

	return buf, nil
}

// Deserialize reverses Serialize: it returns one Value (zero-valued where
// null) and one null flag per column in schema.
func Deserialize(schema *catalog.Schema, buf []byte) ([]types.Value, []bool, error) {
	if uint32(len(buf)) != schema.StorageSize() {
		return nil, nil, fmt.Errorf("tuple: buffer is %d bytes, schema expects %d", len(buf), schema.StorageSize())
	}

	values := make([]types.Value, schema.ColumnCount())
	nulls := make([]bool, schema.ColumnCount())

	for i := 0; i < schema.ColumnCount(); i++ {
		if buf[i/8]&(1<<uint(i%8)) != 0 {
			nulls[i] = true
			continue
		}

		col := schema.Column(i)
		region := buf[col.Offset:]

		switch col.Type {
		case types.Integer:
			values[i] = types.NewInteger(int32(binary.LittleEndian.Uint32(region)))
		case types.Varchar:
			length := binary.LittleEndian.Uint32(region)
			if length > col.StorageSize {
				return nil, nil, fmt.Errorf("tuple: column %q stored length %d exceeds max %d",
					col.Name, length, col.StorageSize)
			}
			values[i] = types.NewVarchar(string(region[4 : 4+length]))
		default:
			return nil, nil, fmt.Errorf("tuple: column %q has unsupported type %d", col.Name, col.Type)
		}
	}

	return values, nulls, nil
}
