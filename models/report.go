package models

// Strategy names the query strategy a raw record came from
type Strategy string

const (
	StrategySearch   Strategy = "search"
	StrategyCategory Strategy = "category"
	StrategyArea     Strategy = "area"
)

// SeedReport holds per-stage counts for one seed run
type SeedReport struct {
	RawRecords     int
	UsableRecipes  int
	UniqueRecipes  int
	Written        int
	Fetched        map[Strategy]int
	FailedBranches map[Strategy]int
	ByCategory     map[string]int
	OutputPath     string
}

// NewSeedReport returns a report with its maps initialised
func NewSeedReport() *SeedReport {
	return &SeedReport{
		Fetched:        make(map[Strategy]int),
		FailedBranches: make(map[Strategy]int),
		ByCategory:     make(map[string]int),
	}
}
