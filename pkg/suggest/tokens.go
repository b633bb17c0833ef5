package suggest

import "iter"

// Tokens adapts an in-memory token slice to the sequence Build consumes
func Tokens(tokens ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, t := range tokens {
			if !yield(t, nil) {
				return
			}
		}
	}
}

// Take stops pulling from seq after n tokens, bounding the cost of a Build call.
// n <= 0 leaves seq unbounded.
func Take(seq iter.Seq2[string, error], n int) iter.Seq2[string, error] {
	if n <= 0 {
		return seq
	}
	return func(yield func(string, error) bool) {
		seen := 0
		for t, err := range seq {
			if !yield(t, err) {
				return
			}
			seen++
			if seen >= n {
				return
			}
		}
	}
}
