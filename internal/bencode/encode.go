package bencode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/WendelHime/mktorrent/internal/shared/models"
)

// Marshal returns the bencoding of v.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type Encoder struct {
	w *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes the bencoding of v and flushes it to the underlying writer.
func (e *Encoder) Encode(v Value) error {
	if err := e.value(v); err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *Encoder) value(v Value) error {
	switch t := v.(type) {
	case Int:
		return e.int(int64(t))
	case String:
		return e.bytes(t)
	case List:
		return e.list(t)
	case Dict:
		return e.dict(t)
	default:
		return fmt.Errorf("%w: %T", models.ErrUnsupportedValue, v)
	}
}

func (e *Encoder) int(n int64) error {
	e.w.WriteByte('i')
	e.w.WriteString(strconv.FormatInt(n, 10))
	return e.w.WriteByte('e')
}

func (e *Encoder) bytes(b []byte) error {
	e.w.WriteString(strconv.Itoa(len(b)))
	e.w.WriteByte(':')
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) list(l List) error {
	e.w.WriteByte('l')
	for _, v := range l {
		if err := e.value(v); err != nil {
			return err
		}
	}
	return e.w.WriteByte('e')
}

func (e *Encoder) dict(d Dict) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.w.WriteByte('d')
	for _, k := range keys {
		if err := e.bytes([]byte(k)); err != nil {
			return err
		}
		if err := e.value(d[k]); err != nil {
			return err
		}
	}
	return e.w.WriteByte('e')
}
