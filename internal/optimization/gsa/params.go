package gsa

import "github.com/copyleftdev/HORDE/internal/optimization"

// ParamsFromMap builds Params from a flat hyperparameter mapping, starting
// from the defaults. Keys without a matching parameter are ignored.
func ParamsFromMap(m map[string]interface{}) (*Params, error) {
	p := DefaultParams()
	for k, v := range m {
		switch k {
		case "G":
			f, err := optimization.ParamFloat(k, v)
			if err != nil {
				return nil, err
			}
			p.G = f
		}
	}
	return &p, nil
}
