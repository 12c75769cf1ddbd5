package motion

// Sample is one filtered differential reading: the change between consecutive
// smoothed accelerometer vectors. Magnitude is precomputed at ingest.
type Sample struct {
	Timestamp float64
	X, Y, Z   float64
	Magnitude float64
}

// sampleRing is a fixed-capacity ring buffer of samples. Oldest entries are
// overwritten in place; no per-sample allocation after construction.
type sampleRing struct {
	buf   []Sample
	head  int
	count int
}

func newSampleRing(capacity int) *sampleRing {
	if capacity < 1 {
		capacity = 1
	}
	return &sampleRing{buf: make([]Sample, capacity)}
}

func (r *sampleRing) push(s Sample) {
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *sampleRing) len() int {
	return r.count
}

// at returns the i-th oldest buffered sample, 0 <= i < len().
func (r *sampleRing) at(i int) Sample {
	start := r.head - r.count
	if start < 0 {
		start += len(r.buf)
	}
	return r.buf[(start+i)%len(r.buf)]
}

// since copies the samples newer than cutoff into dst and returns it. Samples
// are stored in arrival order, so a single backward scan finds the boundary.
func (r *sampleRing) since(cutoff float64, dst []Sample) []Sample {
	dst = dst[:0]
	first := r.count
	for i := r.count - 1; i >= 0; i-- {
		if r.at(i).Timestamp < cutoff {
			break
		}
		first = i
	}
	for i := first; i < r.count; i++ {
		dst = append(dst, r.at(i))
	}
	return dst
}

func (r *sampleRing) reset() {
	r.head = 0
	r.count = 0
}
