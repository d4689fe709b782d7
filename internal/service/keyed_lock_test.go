package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLock_SerializesSameKey(t *testing.T) {
	locks := newKeyedLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("P001")
			defer unlock()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter, "Операции по одному ключу не должны пересекаться")
	assert.Equal(t, 0, locks.size(), "Освобождённые ключи удаляются")
}

func TestKeyedLock_DifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyedLock()
	unlockA := locks.Lock("P001")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("P002")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Блокировка другого ключа не должна ждать")
	}
	assert.Equal(t, 1, locks.size())
}
