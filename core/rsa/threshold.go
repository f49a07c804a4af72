package rsa

import (
	"fmt"
	"math"

	"github.com/mr-shifu/textbook-rsa/lib/params"
)

// Threshold is the number of Miller-Rabin rounds run on every prime candidate.
// A composite is accepted with probability at most 4⁻ʳᵒᵘⁿᵈˢ.
//
// The zero value is the default threshold of params.DefaultRounds rounds.
type Threshold struct {
	rounds int
}

// NewThreshold returns a threshold of the given number of rounds.
func NewThreshold(rounds int) (Threshold, error) {
	if rounds < 1 {
		return Threshold{}, ErrInvalidThreshold
	}
	return Threshold{rounds: rounds}, nil
}

// DefaultThreshold returns the default of 64 rounds, a false positive
// probability of at most 2⁻¹²⁸.
func DefaultThreshold() Threshold {
	return Threshold{rounds: params.DefaultRounds}
}

// Rounds returns the round count.
func (t Threshold) Rounds() int {
	if t.rounds == 0 {
		return params.DefaultRounds
	}
	return t.rounds
}

// FalsePositiveBound returns 4⁻ʳᵒᵘⁿᵈˢ.
func (t Threshold) FalsePositiveBound() float64 {
	return math.Pow(4, -float64(t.Rounds()))
}

func (t Threshold) String() string {
	return fmt.Sprintf("%d rounds, P(err) <= 4^-%d", t.Rounds(), t.Rounds())
}
