package domain

// RNG abstracts random number generation so draws and animations are
// reproducible under test with a fixed sequence.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float64 in [0.0, 1.0).
	Float64() float64
}
