package network

import (
	"sync"
	"testing"
)

type peer struct{ n int }

func TestMap(t *testing.T) {
	m := NewMap[Uid, *peer]()
	id := NewUid()
	p := &peer{n: 1}
	m.Put(id, p)

	got, err := m.Find(id)
	if err != nil || got != p {
		t.Fatalf("find = %v, %v", got, err)
	}
	p.n = 2
	if got.n != 2 {
		t.Errorf("not the same value")
	}
	if _, err = m.Find(NewUid()); err != ErrNotFound {
		t.Errorf("find missing = %v", err)
	}

	m.Remove(id)
	if m.Len() != 0 || len(m.Values()) != 0 {
		t.Errorf("not removed")
	}
}

func TestMapConcurrent(t *testing.T) {
	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Put(i, i)
			_ = m.Values()
		}(i)
	}
	wg.Wait()
	if m.Len() != 50 {
		t.Errorf("len = %v", m.Len())
	}
}
