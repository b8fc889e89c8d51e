package domain

import "time"

// LayerInfo records a completed step in the layer cache. A step whose input
// hash matches its recorded LayerInfo may be skipped on a rebuild.
type LayerInfo struct {
	StepName  string    `json:"step_name,omitzero"`
	InputHash string    `json:"input_hash,omitzero"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}
