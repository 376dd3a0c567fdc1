package core

import (
	"sync"
	"testing"
)

func TestIdentityServiceStartsAtOne(t *testing.T) {
	var s IdentityService
	if id := s.Next(); id != 1 {
		t.Fatalf("first id\nhave %v\nwant #1", id)
	}
	if s.Last() != 1 {
		t.Fatalf("Last\nhave %v\nwant #1", s.Last())
	}
}

func TestIdentityServiceConcurrentUnique(t *testing.T) {
	var s IdentityService
	const workers, per = 8, 500

	var mu sync.Mutex
	seen := make(map[Identity]bool, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]Identity, 0, per)
			prev := InvalidIdentity
			for i := 0; i < per; i++ {
				id := s.Next()
				if id <= prev {
					t.Errorf("ids not increasing within a caller: %v after %v", id, prev)
				}
				prev = id
				local = append(local, id)
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("unique ids\nhave %d\nwant %d", len(seen), workers*per)
	}
}

func TestNextIdentityIsMonotonic(t *testing.T) {
	a := NextIdentity()
	b := NextIdentity()
	if b <= a {
		t.Fatalf("NextIdentity went backwards: %v then %v", a, b)
	}
}
