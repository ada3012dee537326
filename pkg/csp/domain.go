// Package csp is a small finite-domain constraint solver.
// This file defines the Domain interface for representing finite domains
// over discrete values, and its bitset implementation.
package csp

import (
	"fmt"
	"math/bits"
	"strings"
)

// Domain is an immutable finite set of values a variable can take. Values
// are 1-indexed integers in the range [1, MaxValue]. Operations return new
// domains rather than modifying in place.
type Domain interface {
	// Count returns the number of values in the domain.
	// An empty domain represents an inconsistent state.
	Count() int

	// Has reports whether the domain contains value.
	Has(value int) bool

	// Remove returns a domain without value.
	Remove(value int) Domain

	// IsSingleton reports whether exactly one value is left.
	IsSingleton() bool

	// SingletonValue returns the only value of a singleton domain.
	SingletonValue() int

	// IterateValues calls f for each value in ascending order.
	IterateValues(f func(value int))

	// Intersect returns the values present in both domains.
	Intersect(other Domain) Domain

	// Equal reports whether both domains hold the same values.
	Equal(other Domain) bool

	// MaxValue returns the largest value the domain type can hold.
	MaxValue() int

	String() string
}

// BitSetDomain implements Domain with one bit per value: bit i represents
// value i+1.
type BitSetDomain struct {
	maxValue int
	words    []uint64
}

// NewBitSetDomain returns the domain {1, ..., maxValue}.
func NewBitSetDomain(maxValue int) *BitSetDomain {
	if maxValue <= 0 {
		return &BitSetDomain{}
	}
	d := &BitSetDomain{maxValue: maxValue, words: make([]uint64, (maxValue+63)/64)}
	for i := 0; i < maxValue; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	return d
}

// NewBitSetDomainFromValues returns a domain holding only values. Values
// outside [1, maxValue] are ignored.
func NewBitSetDomainFromValues(maxValue int, values []int) *BitSetDomain {
	if maxValue <= 0 {
		return &BitSetDomain{}
	}
	d := &BitSetDomain{maxValue: maxValue, words: make([]uint64, (maxValue+63)/64)}
	for _, v := range values {
		if v >= 1 && v <= maxValue {
			d.words[(v-1)/64] |= 1 << uint((v-1)%64)
		}
	}
	return d
}

// Count uses popcount per word.
func (d *BitSetDomain) Count() int {
	count := 0
	for _, word := range d.words {
		count += bits.OnesCount64(word)
	}
	return count
}

func (d *BitSetDomain) Has(value int) bool {
	if value < 1 || value > d.maxValue {
		return false
	}
	return (d.words[(value-1)/64]>>uint((value-1)%64))&1 == 1
}

func (d *BitSetDomain) Remove(value int) Domain {
	if !d.Has(value) {
		return d
	}
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	words[(value-1)/64] &^= 1 << uint((value-1)%64)
	return &BitSetDomain{maxValue: d.maxValue, words: words}
}

func (d *BitSetDomain) IsSingleton() bool { return d.Count() == 1 }

// SingletonValue panics on an empty domain.
func (d *BitSetDomain) SingletonValue() int {
	for i, word := range d.words {
		if word != 0 {
			return i*64 + bits.TrailingZeros64(word) + 1
		}
	}
	panic("SingletonValue called on empty domain")
}

func (d *BitSetDomain) IterateValues(f func(value int)) {
	for wordIdx, word := range d.words {
		for word != 0 {
			offset := bits.TrailingZeros64(word)
			f(wordIdx*64 + offset + 1)
			word &^= 1 << uint(offset)
		}
	}
}

// Intersect returns an empty domain when other is not a BitSetDomain of the
// same size.
func (d *BitSetDomain) Intersect(other Domain) Domain {
	o, ok := other.(*BitSetDomain)
	words := make([]uint64, len(d.words))
	if ok && o.maxValue == d.maxValue {
		for i := range words {
			words[i] = d.words[i] & o.words[i]
		}
	}
	return &BitSetDomain{maxValue: d.maxValue, words: words}
}

func (d *BitSetDomain) Equal(other Domain) bool {
	o, ok := other.(*BitSetDomain)
	if !ok || o.maxValue != d.maxValue {
		return false
	}
	for i := range d.words {
		if d.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

func (d *BitSetDomain) MaxValue() int { return d.maxValue }

// Values returns the domain as an ascending slice.
func (d *BitSetDomain) Values() []int {
	out := make([]int, 0, d.Count())
	d.IterateValues(func(v int) { out = append(out, v) })
	return out
}

func (d *BitSetDomain) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	d.IterateValues(func(v int) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&b, "%d", v)
	})
	b.WriteByte('}')
	return b.String()
}
