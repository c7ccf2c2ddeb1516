package bits

type Writer struct {
	buf  []byte // total buf
	byte byte   // current byte
	bits byte   // bits used in current byte
}

func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

func (w *Writer) WriteBit(b byte) {
	w.byte |= (b & 0b1) << (7 - w.bits)
	if w.bits++; w.bits == 8 {
		w.buf = append(w.buf, w.byte)
		w.byte = 0
		w.bits = 0
	}
}

func (w *Writer) WriteBits(v uint32, n byte) {
	for i := n - 1; i != 255; i-- {
		w.WriteBit(byte(v>>i) & 0b1)
	}
}

func (w *Writer) WriteBits16(v uint16, n byte) {
	for i := n - 1; i != 255; i-- {
		w.WriteBit(byte(v>>i) & 0b1)
	}
}

func (w *Writer) WriteBits8(v, n byte) {
	for i := n - 1; i != 255; i-- {
		w.WriteBit((v >> i) & 0b1)
	}
}

// Bytes - written bytes, last partial byte padded with zero bits
func (w *Writer) Bytes() []byte {
	if w.bits == 0 {
		return w.buf
	}
	return append(w.buf, w.byte)
}
