package selection

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestSelectionBasics(t *testing.T) {
	s := Of(5, 1, 3, 3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, wanted 3", s.Len())
	}
	if !s.Contains(3) || s.Contains(2) || s.Contains(-1) {
		t.Fatalf("Contains returned unexpected results for %v", s)
	}
	if got := s.Rows(); !slices.Equal(got, []int{1, 3, 5}) {
		t.Fatalf("Rows() = %v, wanted [1 3 5]", got)
	}
	if s.Min() != 1 || s.Max() != 5 {
		t.Fatalf("Min/Max = %d/%d", s.Min(), s.Max())
	}
	if New().Min() != -1 || New().Max() != -1 {
		t.Fatalf("empty Min/Max should be -1")
	}
	s.Remove(3)
	if got := s.String(); got != "[1 5]" {
		t.Fatalf("String() = %q", got)
	}

	var it []int
	for iter := s.Iterator(); iter.HasNext(); {
		it = append(it, iter.Next())
	}
	if !slices.Equal(it, []int{1, 5}) {
		t.Fatalf("Iterator = %v", it)
	}
}

func TestSelectionPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New().Add(-1)
}

func TestSelectionAlgebra(t *testing.T) {
	a := Of(1, 2, 3, 10)
	b := Of(3, 4, 10, 11)

	if got := And(a, b).Rows(); !slices.Equal(got, []int{3, 10}) {
		t.Fatalf("And = %v", got)
	}
	if got := Or(a, b).Rows(); !slices.Equal(got, []int{1, 2, 3, 4, 10, 11}) {
		t.Fatalf("Or = %v", got)
	}
	if got := AndNot(a, b).Rows(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("AndNot = %v", got)
	}
	if got := Not(a, 5).Rows(); !slices.Equal(got, []int{0, 4}) {
		t.Fatalf("Not(a, 5) = %v, wanted [0 4]", got)
	}
	if a.Len() != 4 {
		t.Fatalf("operands were mutated: %v", a)
	}

	c := a.Clone()
	c.AndWith(b)
	if !c.Equal(And(a, b)) {
		t.Fatalf("AndWith disagrees with And")
	}
	if got := AndAll(a, b, Of(10)).Rows(); !slices.Equal(got, []int{10}) {
		t.Fatalf("AndAll = %v", got)
	}
	if got := OrAll(Of(1), Of(2), Of(3)).Len(); got != 3 {
		t.Fatalf("OrAll Len = %d", got)
	}
}

func TestSelectionLaws(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const n = 5000
	for round := 0; round < 20; round++ {
		a, b := New(), New()
		for i := 0; i < n; i++ {
			if rng.IntN(3) == 0 {
				a.Add(i)
			}
			if rng.IntN(5) == 0 {
				b.Add(i)
			}
		}
		if got, want := Or(a, b).Len()+And(a, b).Len(), a.Len()+b.Len(); got != want {
			t.Fatalf("|A∪B|+|A∩B| = %d, wanted %d", got, want)
		}
		if !Not(Not(a, n), n).Equal(a) {
			t.Fatalf("not(not(A)) != A")
		}
		if got := Not(a, n).Len(); got != n-a.Len() {
			t.Fatalf("|not(A)| = %d, wanted %d", got, n-a.Len())
		}
	}
}

func TestRange(t *testing.T) {
	s := Range(3, 7)
	if got := s.Rows(); !slices.Equal(got, []int{3, 4, 5, 6}) {
		t.Fatalf("Range(3, 7) = %v", got)
	}
	if !Range(5, 5).IsEmpty() {
		t.Fatalf("empty range is not empty")
	}
	var collected []int
	for r := range s.All() {
		if r == 5 {
			break
		}
		collected = append(collected, r)
	}
	if !slices.Equal(collected, []int{3, 4}) {
		t.Fatalf("All() with break = %v", collected)
	}
}
