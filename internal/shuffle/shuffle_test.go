package shuffle

import (
	"slices"
	"testing"
)

func TestShuffle_IsPermutation(t *testing.T) {
	rng := NewRand(42)
	src := []int{1, 2, 3, 4, 5, 6, 7, 8}

	for trial := 0; trial < 50; trial++ {
		got := Shuffle(src, rng)
		if len(got) != len(src) {
			t.Fatalf("len = %d, want %d", len(got), len(src))
		}
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, src) {
			t.Fatalf("trial %d: %v is not a permutation of %v", trial, got, src)
		}
	}
}

func TestShuffle_DoesNotModifyInput(t *testing.T) {
	src := []string{"a", "b", "c", "d"}
	orig := slices.Clone(src)

	_ = Shuffle(src, NewRand(7))

	if !slices.Equal(src, orig) {
		t.Errorf("input modified: got %v, want %v", src, orig)
	}
}

func TestShuffle_NotConstantOrder(t *testing.T) {
	rng := NewRand(1)
	src := []int{0, 1, 2, 3, 4}
	first := Shuffle(src, rng)

	for i := 0; i < 100; i++ {
		if !slices.Equal(Shuffle(src, rng), first) {
			return
		}
	}
	t.Error("100 shuffles produced the same order")
}

func TestShuffle_Uniform(t *testing.T) {
	rng := NewRand(99)
	src := []int{0, 1, 2}
	counts := make(map[[3]int]int)
	const trials = 60000

	for i := 0; i < trials; i++ {
		got := Shuffle(src, rng)
		counts[[3]int{got[0], got[1], got[2]}]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d distinct permutations, want 6", len(counts))
	}
	for perm, n := range counts {
		// Expected 10000 each; allow a generous band.
		if n < 9000 || n > 11000 {
			t.Errorf("permutation %v seen %d times, want ~10000", perm, n)
		}
	}
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	rng := NewRand(3)
	if got := Shuffle([]int{}, rng); len(got) != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := Shuffle([]int{9}, rng); !slices.Equal(got, []int{9}) {
		t.Errorf("single: got %v", got)
	}
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	src := []int{1, 2, 3, 4, 5, 6}
	a := Shuffle(src, NewRand(5))
	b := Shuffle(src, NewRand(5))
	if !slices.Equal(a, b) {
		t.Errorf("seeded shuffles differ: %v vs %v", a, b)
	}
}

func TestPick(t *testing.T) {
	rng := NewRand(11)
	pool := []string{"cat", "dog", "house", "sun"}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"fewer than pool", 3, 3},
		{"exactly pool", 4, 4},
		{"more than pool", 10, 4},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(pool, tt.n, rng)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			seen := make(map[string]bool)
			for _, g := range got {
				if seen[g] {
					t.Errorf("duplicate %q in %v", g, got)
				}
				seen[g] = true
				if !slices.Contains(pool, g) {
					t.Errorf("%q not in pool", g)
				}
			}
		})
	}
}
