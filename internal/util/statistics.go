package util

import (
	"github.com/montanaflynn/stats"
)

// Statistics holds the basic aggregates of a list of numbers.
type Statistics struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CalculateStatistics returns nil for an empty input.
func CalculateStatistics(numbers []float64) *Statistics {
	if len(numbers) == 0 {
		return nil
	}
	data := stats.Float64Data(numbers)
	sum, err := stats.Sum(data)
	if err != nil {
		return nil
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return nil
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil
	}
	return &Statistics{Count: len(numbers), Sum: sum, Mean: mean, Min: lo, Max: hi}
}
