package preview

import "io"

// frameBuffer accumulates the escape sequences of one frame so that the
// terminal receives it in a single write.  The buffer is reused across
// frames.
type frameBuffer struct {
	b []byte
}

func (b *frameBuffer) Write(p []byte) (int, error) {
	b.b = append(b.b, p...)
	return len(p), nil
}

func (b *frameBuffer) WriteString(s string) (int, error) {
	if m, ok := b.tryGrowByReslice(len(s)); ok {
		return copy(b.b[m:], s), nil
	}
	b.b = append(b.b, s...)
	return len(s), nil
}

func (b *frameBuffer) Len() int {
	return len(b.b)
}

func (b *frameBuffer) Reset() {
	b.b = b.b[:0]
}

// FlushTo writes the buffered frame to w and empties the buffer.  The buffer
// is emptied even if the write fails so a broken frame is never resent.
func (b *frameBuffer) FlushTo(w io.Writer) error {
	defer b.Reset()
	_, err := w.Write(b.b)
	return err
}

// tryGrowByReslice is an inlineable version of grow for the fast-case where
// the internal buffer only needs to be resliced.  It returns the index where
// bytes should be written and whether it succeeded.
func (b *frameBuffer) tryGrowByReslice(n int) (int, bool) {
	if l := len(b.b); n <= cap(b.b)-l {
		b.b = b.b[:l+n]
		return l, true
	}
	return 0, false
}
