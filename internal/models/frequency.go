package models

// FrequencyDefinition describes a donation cadence.
type FrequencyDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	UILabel     string `json:"uiLabel" yaml:"ui_label"`
	Weight      int    `json:"weight" yaml:"weight"`
	HasDuration bool   `json:"hasDuration" yaml:"has_duration"`
}
