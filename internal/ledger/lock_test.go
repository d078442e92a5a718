package ledger

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	const goroutines = 64
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("slot/1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("expected %d increments, got %d", goroutines, counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.lock("slot/1")
	// A held lock on one key must not block another key.
	done := make(chan struct{})
	go func() {
		unlockB := km.lock("slot/2")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestKeyedMutexEntriesReclaimed(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.lock("booking/7")
	unlock()

	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected 0 live entries after unlock, got %d", n)
	}
}
