package domain

import "encoding/json"

// IsReady applies the gate truthiness rule: a value is ready iff it is not
// the empty string, not numeric zero and not boolean false.
// Every other value, including nil, is ready.
func IsReady(v any) bool {
	switch x := v.(type) {
	case string:
		return x != ""
	case bool:
		return x
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return x != ""
		}
		return f != 0
	}
	return true
}

// AsIndex converts a stored index value back to an int.
// Stores that serialize values (e.g. JSON over Redis) return numbers as float64.
func AsIndex(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
