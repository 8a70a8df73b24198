package spanner

import (
	"fmt"
	"strconv"
	"time"

	spannerapi "google.golang.org/api/spanner/v1"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// decodeRows converts a REST result set into domain rows.
//
// Spanner encodes BOOL as a JSON boolean, INT64 and TIMESTAMP as strings
// and FLOAT64 as a number. Values of other types are passed through as
// decoded from JSON. NULL is nil whatever the column type.
func decodeRows(rs *spannerapi.ResultSet) ([]domain.Row, error) {
	if rs == nil || len(rs.Rows) == 0 {
		return nil, nil
	}

	var fields []*spannerapi.Field
	if rs.Metadata != nil && rs.Metadata.RowType != nil {
		fields = rs.Metadata.RowType.Fields
	}

	rows := make([]domain.Row, 0, len(rs.Rows))
	for i, raw := range rs.Rows {
		row := make(domain.Row, len(raw))
		for j, v := range raw {
			decoded, err := decodeValue(typeCode(fields, j), v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			row[j] = decoded
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func typeCode(fields []*spannerapi.Field, i int) string {
	if i >= len(fields) || fields[i] == nil || fields[i].Type == nil {
		return ""
	}
	return fields[i].Type.Code
}

func decodeValue(code string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch code {
	case "INT64":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("INT64 encoded as %T", v)
		}
		return strconv.ParseInt(s, 10, 64)
	case "TIMESTAMP":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("TIMESTAMP encoded as %T", v)
		}
		return time.Parse(time.RFC3339Nano, s)
	default:
		return v, nil
	}
}
