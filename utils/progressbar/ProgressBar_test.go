package progressbar

import (
	"sync"
	"testing"
	"time"
)

func TestProgressBarConcurrentIncrements(t *testing.T) {
	bar := NewProgressBar(10, 1000, time.Millisecond, true)
	bar.Display()

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 125; i++ {
				bar.Increment()
			}
		}()
	}
	wg.Wait()
	bar.Close()

	if got := bar.progress(); got != 1000 {
		t.Errorf("counted %v increments, expected 1000", got)
	}
}

func TestProgressBarCloseDuringIncrements(t *testing.T) {
	bar := NewProgressBar(10, 1_000_000, time.Millisecond, true)
	bar.Display()

	// Incrementing while the bar closes must neither race nor panic
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10_000; i++ {
			bar.Increment()
		}
	}()
	bar.Close()
	wg.Wait()
}

func TestProgressBarIncrementAfterCloseIsNoOp(t *testing.T) {
	bar := NewProgressBar(10, 5, time.Millisecond, false)
	bar.Display()
	bar.Increment()
	bar.Close()

	bar.Increment()
	if got := bar.progress(); got != 1 {
		t.Errorf("increment after close changed progress to %v", got)
	}
}

func TestProgressBarStopsAtMax(t *testing.T) {
	bar := NewProgressBar(10, 3, time.Millisecond, false)
	for i := 0; i < 10; i++ {
		bar.Increment()
	}
	if got := bar.progress(); got != 3 {
		t.Errorf("progress %v exceeds maximum 3", got)
	}
}

func TestManualProgressBarStopsAtMax(t *testing.T) {
	bar := NewManualProgressBar(10, 3)
	for i := 0; i < 10; i++ {
		bar.Increment()
	}
	bar.Display()

	if bar.currentProgress != 3 {
		t.Errorf("progress %v exceeds maximum 3", bar.currentProgress)
	}
}
