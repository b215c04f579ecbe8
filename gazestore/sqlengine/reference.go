package sqlengine

import (
	"context"
	"database/sql/driver"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine/internal/adapters"
)

// ReferenceTable returns every row of table with its columns discovered from the result set.
// Values are stringified; binary values are base64-encoded; NULL stays nil.
// An absent table yields an empty result, not an error.
func (e *Engine) ReferenceTable(ctx context.Context, table string) ([]gazestore.ReferenceRow, error) {
	ctx, observer := e.startOperation(ctx, operationReferenceTable, map[string]string{logAttrTable: table})

	rows, err := e.referenceRows(ctx, table)
	if err != nil {
		return nil, observer.finishError(err)
	}

	observer.finishSuccess(len(rows))

	return rows, nil
}

func (e *Engine) referenceRows(ctx context.Context, table string) ([]gazestore.ReferenceRow, error) {
	if strings.TrimSpace(table) == "" {
		return nil, gazestore.ErrEmptyTableName
	}

	exists, err := e.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}

	if !exists {
		e.logWarn(ctx, logMsgTableAbsent, logAttrTable, table)
		return make([]gazestore.ReferenceRow, 0), nil
	}

	out := make([]gazestore.ReferenceRow, 0)
	var columns []string

	err = e.runQuery(ctx, operationReferenceTable, e.selectAll(table), func(rows adapters.DBRows) error {
		if columns == nil {
			var colErr error
			if columns, colErr = rows.Columns(); colErr != nil {
				return colErr
			}
		}

		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}

		if err := rows.Scan(targets...); err != nil {
			return err
		}

		fields := make([]gazestore.ReferenceField, len(columns))
		for i, name := range columns {
			fields[i] = gazestore.ReferenceField{Name: name, Value: stringify(values[i])}
		}
		out = append(out, gazestore.NewReferenceRow(fields...))

		return nil
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (e *Engine) tableExists(ctx context.Context, table string) (bool, error) {
	var count int64

	err := e.runQuery(ctx, operationReferenceTable, e.selectTableExists(table), func(rows adapters.DBRows) error {
		return rows.Scan(&count)
	})

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// stringify renders a scanned column value as a nullable string.
func stringify(v any) *string {
	var s string

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case []byte:
		s = base64.StdEncoding.EncodeToString(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case int32:
		s = strconv.FormatInt(int64(val), 10)
	case int16:
		s = strconv.FormatInt(int64(val), 10)
	case int8:
		s = strconv.FormatInt(int64(val), 10)
	case int:
		s = strconv.Itoa(val)
	case uint64:
		s = strconv.FormatUint(val, 10)
	case uint32:
		s = strconv.FormatUint(uint64(val), 10)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		s = strconv.FormatBool(val)
	case time.Time:
		s = val.Format(time.RFC3339)
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil {
			s = fmt.Sprint(val)
			break
		}

		if _, isValuer := inner.(driver.Valuer); isValuer {
			s = fmt.Sprint(inner)
			break
		}

		return stringify(inner)
	default:
		s = fmt.Sprint(val)
	}

	return &s
}
