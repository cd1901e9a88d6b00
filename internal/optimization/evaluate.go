package optimization

// Evaluate computes the fitness of every agent in the space and refreshes the
// space's best agent on strict improvement. The best agent receives a copy of
// the improving position, never a reference, since population positions are
// mutated in place every iteration.
//
// If hook is non-nil it runs once before the pass. The first objective error
// aborts the pass; there is no retry.
func Evaluate(space *SearchSpace, fn ObjectiveFunction, hook PreEvalHook) error {
	if hook != nil {
		hook(space, fn)
	}

	for _, agent := range space.Agents {
		fit, err := fn(agent.Position)
		if err != nil {
			return WrapError(err, "objective evaluation failed").
				WithComponent("optimizer").WithOperation("evaluate")
		}
		agent.Fit = fit

		if agent.Fit < space.Best.Fit {
			space.Best.CopyFrom(agent)
		}
	}

	return nil
}
