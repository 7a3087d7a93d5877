package render

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zoobzio/sqlrender/dialect"
	"github.com/zoobzio/sqlrender/internal/types"
)

// TimestampLayout formats time values inside timestamp literals. Values are
// converted to UTC first, since the layout carries no zone.
const TimestampLayout = "2006-01-02 15:04:05.999999"

// literal writes v as SQL literal text.
func (st *state) literal(v any) error {
	switch x := v.(type) {
	case bool:
		st.sb.WriteString(st.d.Boolean(x))
		return nil
	case string:
		st.sb.WriteString(st.quoteString(x))
		return nil
	case []byte:
		return &LiteralError{Value: v, Dialect: st.d.Name()}
	case time.Time:
		ts := types.Operation{Op: "TIMESTAMP", Args: []types.Expression{types.Raw{SQL: x.UTC().Format(TimestampLayout)}}}
		return st.apply(st.d.TimestampTemplate(), dialect.PrecedenceHighest, ts)
	case uuid.UUID:
		st.sb.WriteString(st.quoteString(x.String()))
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		st.sb.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		st.sb.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &LiteralError{Value: v, Dialect: st.d.Name()}
		}
		st.sb.WriteString(strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()))
	case reflect.String:
		st.sb.WriteString(st.quoteString(rv.String()))
	case reflect.Bool:
		st.sb.WriteString(st.d.Boolean(rv.Bool()))
	case reflect.Pointer:
		if rv.IsNil() {
			st.sb.WriteString(st.d.Keyword("null"))
			return nil
		}
		return st.literal(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		values, ok := sliceValues(v)
		if !ok {
			return &LiteralError{Value: v, Dialect: st.d.Name()}
		}
		st.sb.WriteByte('(')
		for i, val := range values {
			if i > 0 {
				st.sb.WriteString(st.d.ListSeparator())
			}
			if err := st.constant(val); err != nil {
				return err
			}
		}
		st.sb.WriteByte(')')
	default:
		return &LiteralError{Value: v, Dialect: st.d.Name()}
	}
	return nil
}

func (st *state) quoteString(s string) string {
	if st.d.BackslashEscapes() {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
