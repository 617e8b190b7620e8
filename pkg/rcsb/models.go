package rcsb

// BatchResponse is the raw parsed body of one batch-detail query.
// Data is nil when the service returned an error document instead of
// results; callers decide what to do with such a response.
type BatchResponse struct {
	Data *Data `json:"data"`
}

type Data struct {
	Entries []Entry `json:"entries"`
}

// Entry is one PDB entry as returned by the GraphQL data API.
type Entry struct {
	RcsbID           string        `json:"rcsb_id"`
	ExptlCrystalGrow []CrystalGrow `json:"exptl_crystal_grow"`
	RcsbEntryInfo    *EntryInfo    `json:"rcsb_entry_info"`
	Pubmed           *Pubmed       `json:"pubmed"`
}

// CrystalGrow describes one crystallization condition. The API returns
// pH and temp inconsistently as numbers or strings, so both are decoded
// loosely and coerced downstream.
type CrystalGrow struct {
	Method      *string     `json:"method"`
	Temp        interface{} `json:"temp"`
	PdbxDetails *string     `json:"pdbx_details"`
	PH          interface{} `json:"pH"`
}

type EntryInfo struct {
	ResolutionCombined []interface{} `json:"resolution_combined"`
}

type Pubmed struct {
	PubmedCentralID *string `json:"rcsb_pubmed_central_id"`
}
