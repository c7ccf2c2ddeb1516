package amf

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"
)

const (
	TypeNumber byte = iota
	TypeBoolean
	TypeString
	TypeObject
	TypeMovieClip
	TypeNull
	TypeUndefined
	TypeReference
	TypeEcmaArray
	TypeObjectEnd
	TypeStrictArray
	TypeDate
	TypeLongString
)

// AMF spec: http://download.macromedia.com/pub/labs/amf/amf0_spec_121207.pdf
type AMF struct {
	buf   []byte
	pos   int
	depth int // nesting level of objects and arrays
}

// MaxDepth - nesting limit for objects and arrays, deeper data is a read error
const MaxDepth = 64

var (
	ErrRead        = errors.New("amf: read error")
	ErrUnsupported = errors.New("amf: unsupported type")
)

func NewReader(b []byte) *AMF {
	return &AMF{buf: b}
}

func (a *AMF) ReadItems() ([]any, error) {
	var items []any
	for a.pos < len(a.buf) {
		v, err := a.ReadItem()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (a *AMF) ReadItem() (any, error) {
	dataType, err := a.ReadByte()
	if err != nil {
		return nil, err
	}

	switch dataType {
	case TypeNumber:
		return a.ReadNumber()

	case TypeBoolean:
		b, err := a.ReadByte()
		return b != 0, err

	case TypeString:
		return a.ReadString()

	case TypeLongString:
		return a.readString(4)

	case TypeObject:
		return a.ReadObject()

	case TypeEcmaArray:
		return a.ReadEcmaArray()

	case TypeStrictArray:
		return a.ReadStrictArray()

	case TypeDate:
		// 8 byte milliseconds + 2 byte time zone (reserved)
		f, err := a.ReadNumber()
		if err != nil {
			return nil, err
		}
		if _, err = a.readSize(2); err != nil {
			return nil, err
		}
		return f, nil

	case TypeNull, TypeUndefined:
		return nil, nil

	case TypeObjectEnd:
		return nil, nil
	}

	return nil, ErrUnsupported
}

func (a *AMF) ReadByte() (byte, error) {
	if a.pos >= len(a.buf) {
		return 0, ErrRead
	}

	v := a.buf[a.pos]
	a.pos++
	return v, nil
}

func (a *AMF) ReadNumber() (float64, error) {
	b, err := a.readSize(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (a *AMF) ReadString() (string, error) {
	return a.readString(2)
}

func (a *AMF) readString(sizeLen int) (string, error) {
	b, err := a.readSize(sizeLen)
	if err != nil {
		return "", err
	}

	var size int
	if sizeLen == 2 {
		size = int(binary.BigEndian.Uint16(b))
	} else {
		size = int(binary.BigEndian.Uint32(b))
	}

	if b, err = a.readSize(size); err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *AMF) readSize(n int) ([]byte, error) {
	if n < 0 || a.pos+n > len(a.buf) {
		return nil, ErrRead
	}
	b := a.buf[a.pos : a.pos+n]
	a.pos += n
	return b, nil
}

func (a *AMF) ReadObject() (map[string]any, error) {
	if a.depth >= MaxDepth {
		return nil, ErrRead
	}
	a.depth++
	defer func() { a.depth-- }()

	obj := make(map[string]any)

	for {
		k, err := a.ReadString()
		if err != nil {
			return nil, err
		}

		v, err := a.ReadItem()
		if err != nil {
			return nil, err
		}

		if k == "" {
			break
		}

		obj[k] = v
	}

	return obj, nil
}

func (a *AMF) ReadEcmaArray() (map[string]any, error) {
	if _, err := a.readSize(4); err != nil { // skip size
		return nil, err
	}

	return a.ReadObject()
}

func (a *AMF) ReadStrictArray() ([]any, error) {
	b, err := a.readSize(4)
	if err != nil {
		return nil, err
	}

	n := int(binary.BigEndian.Uint32(b))
	if n > len(a.buf)-a.pos {
		return nil, ErrRead // each item takes at least one byte
	}

	if a.depth >= MaxDepth {
		return nil, ErrRead
	}
	a.depth++
	defer func() { a.depth-- }()

	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := a.ReadItem()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func NewWriter() *AMF {
	return &AMF{}
}

func (a *AMF) Bytes() []byte {
	return a.buf
}

func (a *AMF) WriteNumber(n float64) {
	a.buf = append(a.buf, TypeNumber)
	a.buf = binary.BigEndian.AppendUint64(a.buf, math.Float64bits(n))
}

func (a *AMF) WriteBool(b bool) {
	if b {
		a.buf = append(a.buf, TypeBoolean, 1)
	} else {
		a.buf = append(a.buf, TypeBoolean, 0)
	}
}

func (a *AMF) WriteString(s string) {
	if n := len(s); n > math.MaxUint16 {
		a.buf = append(a.buf, TypeLongString)
		a.buf = binary.BigEndian.AppendUint32(a.buf, uint32(n))
	} else {
		a.buf = append(a.buf, TypeString, byte(n>>8), byte(n))
	}
	a.buf = append(a.buf, s...)
}

func (a *AMF) WriteObject(obj map[string]any) {
	a.buf = append(a.buf, TypeObject)
	a.writeKV(obj)
	a.buf = append(a.buf, 0, 0, TypeObjectEnd)
}

func (a *AMF) WriteEcmaArray(obj map[string]any) {
	n := len(obj)
	a.buf = append(a.buf, TypeEcmaArray, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	a.writeKV(obj)
	a.buf = append(a.buf, 0, 0, TypeObjectEnd)
}

func (a *AMF) writeKV(obj map[string]any) {
	// stable output for the same object
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		n := len(k)
		a.buf = append(a.buf, byte(n>>8), byte(n))
		a.buf = append(a.buf, k...)
		a.WriteItem(obj[k])
	}
}

func (a *AMF) WriteNull() {
	a.buf = append(a.buf, TypeNull)
}

func (a *AMF) WriteItem(item any) {
	switch v := item.(type) {
	case float64:
		a.WriteNumber(v)
	case int:
		a.WriteNumber(float64(v))
	case uint16:
		a.WriteNumber(float64(v))
	case uint32:
		a.WriteNumber(float64(v))
	case string:
		a.WriteString(v)
	case bool:
		a.WriteBool(v)
	case map[string]any:
		a.WriteObject(v)
	case nil:
		a.WriteNull()
	default:
		panic(v)
	}
}

func EncodeItems(items ...any) []byte {
	a := &AMF{}
	for _, item := range items {
		a.WriteItem(item)
	}
	return a.Bytes()
}
