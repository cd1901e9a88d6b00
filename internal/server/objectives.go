package server

import (
	"math"

	"github.com/copyleftdev/HORDE/internal/optimization"
)

// builtinObjectives maps request objective names to benchmark functions.
// All of them are deterministic minimization problems with optimum 0.
var builtinObjectives = map[string]optimization.ObjectiveFunction{
	"sphere":     sphere,
	"rastrigin":  rastrigin,
	"rosenbrock": rosenbrock,
	"ackley":     ackley,
}

func sphere(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

func rastrigin(x []float64) (float64, error) {
	sum := 10.0 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum, nil
}

func rosenbrock(x []float64) (float64, error) {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum, nil
}

func ackley(x []float64) (float64, error) {
	n := float64(len(x))
	sumSq, sumCos := 0.0, 0.0
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E, nil
}
