package backoff

import "testing"

// BenchmarkBackoff_Next measures the cost of computing one delay.
func BenchmarkBackoff_Next(b *testing.B) {
	bo := Accept()
	for i := 0; i < b.N; i++ {
		if i%16 == 0 {
			bo.Reset()
		}
		_ = bo.Next()
	}
}
