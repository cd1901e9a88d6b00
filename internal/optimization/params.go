package optimization

import "encoding/json"

// ParamFloat coerces one hyperparameter mapping value into a float64.
// Integers are accepted alongside floats; anything else is a type error
// naming the parameter.
func ParamFloat(name string, v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, InvalidTypef("`%s` should be a float or integer, got %q", name, x.String())
		}
		return f, nil
	default:
		return 0, InvalidTypef("`%s` should be a float or integer, got %T", name, v)
	}
}
