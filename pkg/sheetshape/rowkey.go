package sheetshape

import (
	"encoding/binary"
	"math"

	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/models"
	"github.com/zeebo/xxh3"
)

// appendValue appends a self-delimiting encoding of v to buf. Equal values
// encode identically.
func appendValue(buf []byte, v models.Value) []byte {
	buf = append(buf, byte(v.Kind()))
	switch v.Kind() {
	case models.KindNumber:
		n, _ := v.Float()
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(n))
	case models.KindText:
		s, _ := v.Str()
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	case models.KindBool:
		if b, _ := v.Boolean(); b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case models.KindDateTime:
		t, _ := v.Time()
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.UnixNano()))
	}
	return buf
}

// rowHash fingerprints a row.
func rowHash(buf []byte, row models.Row) (uint64, []byte) {
	buf = buf[:0]
	for _, v := range row {
		buf = appendValue(buf, v)
	}
	return xxh3.Hash(buf), buf
}

// rowSet tracks rows seen so far. Hash collisions are resolved by comparing
// the rows themselves.
type rowSet struct {
	buckets map[uint64][]models.Row
	buf     []byte
}

func newRowSet(capacity int) *rowSet {
	return &rowSet{buckets: make(map[uint64][]models.Row, capacity)}
}

// add records row and reports whether an equal row was already present.
func (s *rowSet) add(row models.Row) (seen bool) {
	var h uint64
	h, s.buf = rowHash(s.buf, row)
	for _, prev := range s.buckets[h] {
		if prev.Equal(row) {
			return true
		}
	}
	s.buckets[h] = append(s.buckets[h], row)
	return false
}

// valueSet counts distinct values.
type valueSet struct {
	buckets map[uint64][]models.Value
	n       int
	buf     []byte
}

func newValueSet() *valueSet {
	return &valueSet{buckets: make(map[uint64][]models.Value)}
}

// add records v and reports whether it is new.
func (s *valueSet) add(v models.Value) bool {
	s.buf = appendValue(s.buf[:0], v)
	h := xxh3.Hash(s.buf)
	for _, prev := range s.buckets[h] {
		if prev.Equal(v) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	s.n++
	return true
}

func (s *valueSet) len() int { return s.n }

// Distinct returns the distinct non-null values in first-seen order.
func Distinct(values []models.Value) []models.Value {
	set := newValueSet()
	var out []models.Value
	for _, v := range values {
		if !v.IsNull() && set.add(v) {
			out = append(out, v)
		}
	}
	return out
}
