package sbo

import "github.com/copyleftdev/HORDE/internal/optimization"

// ParamsFromMap builds Params from a flat hyperparameter mapping, starting
// from the defaults. Keys without a matching parameter are ignored.
func ParamsFromMap(m map[string]interface{}) (*Params, error) {
	p := DefaultParams()
	for k, v := range m {
		var dst *float64
		switch k {
		case "alpha":
			dst = &p.Alpha
		case "p_mutation":
			dst = &p.PMutation
		case "z":
			dst = &p.Z
		default:
			continue
		}
		f, err := optimization.ParamFloat(k, v)
		if err != nil {
			return nil, err
		}
		*dst = f
	}
	return &p, nil
}
