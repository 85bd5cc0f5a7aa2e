// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. Drawing happens in
// a separate goroutine so that the progress bar runs concurrently with
// all other processes. Increment and Close may be called from any
// goroutine.
type ProgressBar struct {
	// Width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress float64

	// mu guards currentProgress and closed
	mu sync.Mutex

	// currentProgress measures the current progess, equivalently it
	// measures the number of times Increment() was called
	currentProgress float64

	closed bool

	// redrawEvent wakes the drawing goroutine when updateAtIncrement
	// is set. The channel is buffered and sends never block; a redraw
	// that is already pending covers any increments made meanwhile.
	redrawEvent chan struct{}

	closeEvent chan struct{}
	drawing    sync.WaitGroup

	updateEvery       time.Duration
	updateAtIncrement bool
}

// NewProgressBar returns a new progress bar that is width characters
// wide and reaches 100% capacity after max Increment() calls.
func NewProgressBar(width, max int, updateEvery time.Duration,
	updateAtIncrement bool) *ProgressBar {
	return &ProgressBar{
		width:             float64(width),
		maxProgress:       float64(max),
		currentProgress:   0,
		redrawEvent:       make(chan struct{}, 1),
		closeEvent:        make(chan struct{}),
		closed:            false,
		updateEvery:       updateEvery,
		updateAtIncrement: updateAtIncrement,
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called. Incrementing a
// closed or full progress bar has no effect.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	if p.closed || p.currentProgress >= p.maxProgress {
		p.mu.Unlock()
		return
	}
	p.currentProgress++
	p.mu.Unlock()

	if p.updateAtIncrement {
		select {
		case p.redrawEvent <- struct{}{}:
		default:
		}
	}
}

// progress returns the current progress counter
func (p *ProgressBar) progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentProgress
}

// Close closes the progress bar so that it will no longer display to
// the screen. Close waits until the drawing goroutine has stopped, so
// once Close returns nothing more is printed. This function also
// cleans up any resources the progress bar is using.
func (pbar *ProgressBar) Close() {
	pbar.mu.Lock()
	if pbar.closed {
		pbar.mu.Unlock()
		panic("close: close on closed progress bar")
	}
	pbar.closed = true
	pbar.mu.Unlock()

	close(pbar.closeEvent)
	pbar.drawing.Wait()
	fmt.Println() // Jump to next line after printed pbar
}

// Display displays the progress bar on the screen. It should only be
// called once.
func (pbar *ProgressBar) Display() {
	pbar.drawing.Add(1)
	go func() {
		defer pbar.drawing.Done()

		tick := time.NewTicker(pbar.updateEvery)
		defer tick.Stop()

		var elapsedTime time.Duration

		for {
			// Update whenever Increment() is called if required, and
			// on every tick otherwise
			select {
			case <-pbar.redrawEvent:

			case <-tick.C:
				elapsedTime += pbar.updateEvery

			case <-pbar.closeEvent:
				return
			}

			pbar.draw(elapsedTime)
		}
	}()
}

// draw renders the progress bar to the terminal
func (pbar *ProgressBar) draw(elapsedTime time.Duration) {
	currentProgress := pbar.progress()

	var bar strings.Builder
	bar.Write([]byte("|"))

	currentProg := currentProgress / pbar.maxProgress * pbar.width
	for i := 0.0; i < currentProg; i++ {
		bar.Write([]byte("█"))
	}
	for i := currentProg; i < pbar.width; i++ {
		bar.Write([]byte(" "))
	}
	bar.Write([]byte(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		currentProgress/pbar.maxProgress*100, "%",
		elapsedTime)))

	fmt.Printf("\n\033[1A\033[K%v", bar.String())
}
