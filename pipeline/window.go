package pipeline

// Window emits, for every input, a snapshot of the last size scalars seen,
// oldest first. A list input contributes all of its elements before the
// buffer is trimmed. The buffer grows with the input, so size only caps it.
func Window(downstream Stage, size int) Stage {
	if size < 0 {
		size = 0
	}
	w := &slidingWindow{size: size}
	return FlatMap(downstream, w.slide)
}

type slidingWindow struct {
	size int
	buf  []float64
}

func (w *slidingWindow) slide(v Value) Outputs {
	switch v.kind {
	case KindScalar:
		w.buf = append(w.buf, v.num)
	case KindList:
		w.buf = append(w.buf, v.items...)
	}
	if over := len(w.buf) - w.size; over > 0 {
		n := copy(w.buf, w.buf[over:])
		w.buf = w.buf[:n]
	}
	return One(List(w.buf...))
}
