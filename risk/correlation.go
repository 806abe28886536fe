package risk

import "math"

// ReturnWindow is a fixed-capacity trailing window of per-bar returns
// for one instrument, used for cross-instrument correlation checks.
type ReturnWindow struct {
	capacity  int
	lastClose float64
	returns   []float64
}

// NewReturnWindow creates a window holding up to capacity returns.
func NewReturnWindow(capacity int) *ReturnWindow {
	return &ReturnWindow{
		capacity: capacity,
		returns:  make([]float64, 0, capacity),
	}
}

// Push records the next close and appends its return to the window.
func (w *ReturnWindow) Push(close float64) {
	if w.lastClose > 0 {
		w.returns = append(w.returns, close/w.lastClose-1)
		if len(w.returns) > w.capacity {
			w.returns = w.returns[1:]
		}
	}
	w.lastClose = close
}

// Values returns the trailing returns, oldest first.
func (w *ReturnWindow) Values() []float64 {
	return w.returns
}

// Reset clears the window.
func (w *ReturnWindow) Reset() {
	w.returns = w.returns[:0]
	w.lastClose = 0
}

// Correlation computes the Pearson correlation of the overlapping tails
// of two return series. It returns 0 when fewer than three overlapping
// observations exist or either series is constant.
func Correlation(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 3 {
		return 0
	}
	a = a[len(a)-n:]
	b = b[len(b)-n:]

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/float64(n), sumB/float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
