package csp

import "testing"

func TestNewBitSetDomain(t *testing.T) {
	tests := []struct {
		name     string
		maxValue int
		want     int
	}{
		{"small", 9, 9},
		{"word boundary", 64, 64},
		{"two words", 100, 100},
		{"empty", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBitSetDomain(tt.maxValue)
			if got := d.Count(); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
			if tt.maxValue > 0 && (!d.Has(1) || !d.Has(tt.maxValue)) {
				t.Errorf("domain %s is missing an endpoint", d)
			}
			if d.Has(tt.maxValue + 1) {
				t.Errorf("Has(%d) = true beyond MaxValue", tt.maxValue+1)
			}
		})
	}
}

func TestBitSetDomain_Remove(t *testing.T) {
	d := NewBitSetDomainFromValues(70, []int{1, 65, 70})
	r := d.Remove(65)

	if r.Has(65) {
		t.Error("Remove(65) left 65 in the domain")
	}
	if !d.Has(65) {
		t.Error("Remove modified the receiver")
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if got := d.Remove(2); !got.Equal(d) {
		t.Errorf("removing an absent value changed the domain: %s", got)
	}
}

func TestBitSetDomain_Singleton(t *testing.T) {
	d := NewBitSetDomainFromValues(100, []int{77})
	if !d.IsSingleton() {
		t.Fatalf("IsSingleton() = false for %s", d)
	}
	if got := d.SingletonValue(); got != 77 {
		t.Errorf("SingletonValue() = %d, want 77", got)
	}
}

func TestBitSetDomain_IterateValues(t *testing.T) {
	d := NewBitSetDomainFromValues(130, []int{129, 3, 64, 65, 0, 131})
	var got []int
	d.IterateValues(func(v int) { got = append(got, v) })

	want := []int{3, 64, 65, 129}
	if len(got) != len(want) {
		t.Fatalf("IterateValues() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IterateValues() = %v, want %v", got, want)
		}
	}
	if s := d.String(); s != "{3,64,65,129}" {
		t.Errorf("String() = %q", s)
	}
}

func TestBitSetDomain_Intersect(t *testing.T) {
	a := NewBitSetDomainFromValues(10, []int{1, 2, 3, 4})
	b := NewBitSetDomainFromValues(10, []int{3, 4, 5})

	got := a.Intersect(b)
	if !got.Equal(NewBitSetDomainFromValues(10, []int{3, 4})) {
		t.Errorf("Intersect() = %s, want {3,4}", got)
	}
	if n := a.Intersect(NewBitSetDomain(20)).Count(); n != 0 {
		t.Errorf("Intersect() across sizes has %d values, want 0", n)
	}
}
