package ba

import "github.com/copyleftdev/HORDE/internal/optimization"

// ParamsFromMap builds Params from a flat hyperparameter mapping, starting
// from the defaults. Keys without a matching parameter are ignored.
func ParamsFromMap(m map[string]interface{}) (*Params, error) {
	p := DefaultParams()
	for k, v := range m {
		var dst *float64
		switch k {
		case "f_min":
			dst = &p.FMin
		case "f_max":
			dst = &p.FMax
		case "A":
			dst = &p.Loudness
		case "r":
			dst = &p.PulseRate
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
