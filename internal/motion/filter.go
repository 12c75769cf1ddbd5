package motion

// axisFilter is a fixed-window moving average over one axis, used to strip
// high-frequency sensor noise before differencing. It reports ready only once
// the window is full (warm-up), so early unstable readings never reach the
// classifiers.
type axisFilter struct {
	window []float64
	head   int
	count  int
	sum    float64
}

func newAxisFilter(size int) *axisFilter {
	if size < 2 {
		size = 2
	}
	return &axisFilter{window: make([]float64, size)}
}

func (f *axisFilter) push(v float64) {
	if f.count == len(f.window) {
		f.sum -= f.window[f.head]
	} else {
		f.count++
	}
	f.window[f.head] = v
	f.sum += v
	f.head = (f.head + 1) % len(f.window)
}

func (f *axisFilter) ready() bool {
	return f.count == len(f.window)
}

func (f *axisFilter) value() float64 {
	if f.count == 0 {
		return 0
	}
	return f.sum / float64(f.count)
}

func (f *axisFilter) reset() {
	for i := range f.window {
		f.window[i] = 0
	}
	f.head = 0
	f.count = 0
	f.sum = 0
}
