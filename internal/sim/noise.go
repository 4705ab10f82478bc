package sim

// normSource yields standard normal samples. *rand.Rand satisfies it; tests
// substitute fixed sequences to make motion and classification deterministic.
type normSource interface {
	NormFloat64() float64
}
