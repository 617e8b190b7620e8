package structures

// Structure is the locally stored crystallization summary for one PDB
// entry. Optional fields are pointers; a nil field means the remote
// catalog had no usable value for it.
type Structure struct {
	PDBID       string   `json:"pdbid"`
	PMCID       *string  `json:"pmcid,omitempty"`
	Details     *string  `json:"details,omitempty"`
	Sequences   []string `json:"sequences"`
	PH          *float64 `json:"ph,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Method      *string  `json:"method,omitempty"`
	Resolution  *float64 `json:"resolution,omitempty"`
}

// HasDetails reports whether the structure carries crystallization details text.
func (s *Structure) HasDetails() bool {
	return s.Details != nil && *s.Details != ""
}
