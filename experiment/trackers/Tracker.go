// Package trackers implements tracking of data generated during an
// experiment. Trackers cache data from each TimeStep an environment
// returns and save the cached data to disk once the experiment has
// finished.
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/gocart-rl/gocart/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// LoadData loads and returns float64 data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}

// LoadIntData loads and returns int data saved by a Tracker
func LoadIntData(filename string) ([]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadIntData: could not open data file: %w",
			err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []int
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadIntData: could not decode data: %w", err)
	}

	return data, nil
}
