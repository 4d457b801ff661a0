package domain

import "time"

// RawReading is one normalized instrument-export row.
type RawReading struct {
	DosimeterCode string     `json:"dosimeter_code"`
	Hp10          float64    `json:"hp10"`
	Hp007         float64    `json:"hp007"`
	Hp3           float64    `json:"hp3"`
	Timestamp     *time.Time `json:"timestamp"`
}
