// Package sorter orders map keys the way the reference YAML emitter does,
// so that struct-inlined maps and plain maps produce stable, human-friendly
// output instead of Go's randomized map order.
package sorter

import (
	"reflect"
	"strings"
	"unicode"
)

// KeyList sorts reflect.Values honoring type-specific comparisons (numeric
// by magnitude, strings with a numeric-prefix split so "a2" sorts before
// "a10") instead of falling back to formatted-string comparison.
type KeyList []reflect.Value

func (l KeyList) Len() int      { return len(l) }
func (l KeyList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l KeyList) Less(i, j int) bool {
	a := l[i]
	b := l[j]
	ak := a.Kind()
	bk := b.Kind()
	for ak == reflect.Interface || ak == reflect.Ptr {
		a = a.Elem()
		ak = a.Kind()
	}
	for bk == reflect.Interface || bk == reflect.Ptr {
		b = b.Elem()
		bk = b.Kind()
	}
	af, aok := keyFloat(a)
	bf, bok := keyFloat(b)
	if aok && bok {
		if af != bf {
			return af < bf
		}
		if ak != bk {
			return ak < bk
		}
		return numLess(a, b)
	}
	if ak != reflect.String || bk != reflect.String {
		return ak < bk
	}
	as := a.String()
	bs := b.String()
	ar, br := []rune(as), []rune(bs)
	digits := func(r rune) bool { return r >= '0' && r <= '9' }
	for i, j := 0, 0; i < len(ar) && j < len(br); {
		if digits(ar[i]) && digits(br[j]) {
			si, sj := i, j
			for i < len(ar) && digits(ar[i]) {
				i++
			}
			for j < len(br) && digits(br[j]) {
				j++
			}
			an := strings.TrimLeft(string(ar[si:i]), "0")
			bn := strings.TrimLeft(string(br[sj:j]), "0")
			if len(an) != len(bn) {
				return len(an) < len(bn)
			}
			if an != bn {
				return an < bn
			}
			if i-si != j-sj {
				return i-si < j-sj
			}
			continue
		}
		if ar[i] != br[j] {
			if al, bl := unicode.IsLetter(ar[i]), unicode.IsLetter(br[j]); al != bl {
				return bl
			}
			return ar[i] < br[j]
		}
		i++
		j++
	}
	return len(ar) < len(br)
}

// keyFloat returns a float value for any numeric type and reports whether
// the value is numeric at all.
func keyFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// numLess breaks ties between equal-magnitude numeric values deterministically.
func numLess(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	default:
		return a.Int() < b.Int()
	}
}
