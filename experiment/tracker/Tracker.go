// Package tracker implements Trackers, which track and save data
// generated while running an experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/MJRobillard/q-learner-grid/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished. Experiments send every transition
// to Track and every completed episode to End; Save writes the
// accumulated series to disk.
type Tracker interface {
	Track(timestep.StepResult)
	End(timestep.EpisodeResult)
	Save() error
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode data: %w", err)
	}

	return data, nil
}

// save gob-encodes a series to filename
func save(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(data); err != nil {
		return fmt.Errorf("could not encode data: %w", err)
	}
	return nil
}
