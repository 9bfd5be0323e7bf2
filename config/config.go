// Package config aggregates the tunables of the consensus-and-gap-resolution
// core into a single struct, the way markduplicates.Opts aggregates that
// package's command-line-derived configuration. A host parses flags or a
// config file (out of scope here) and populates a Config; the core itself
// never reads flags or the environment.
package config

// Config holds every tunable named by the specification's configuration
// table (error-rate ceiling, min-overlap, min-good-links, ...) plus the
// expansions recovered from original_source/ that the distilled options
// table left as prose.
type Config struct {
	// Consensus (component C).

	// ErrorRateCeiling is the maximum error rate E the consensus aligner
	// will use after retry doubling (E_max in the retry-tier pseudocode).
	ErrorRateCeiling float64
	// InitialErrorRate is E0, the error rate tier used on the first pass
	// over a fragment.
	InitialErrorRate float64
	// MinOverlapLen is MIN_OVERLAP_LEN, used both by alignFragment
	// rejection and by overlap-path edge admissibility.
	MinOverlapLen int
	// FailureIsFatal, when set, turns an unrecoverable per-unitig
	// alignment failure into a hard error instead of a soft failed-unitig
	// marker.
	FailureIsFatal bool
	// MicroHetDisagreementThreshold is the per-column w/d ratio above
	// which a column counts as disagreeing when estimating a unitig's
	// micro-heterozygosity probability.
	MicroHetDisagreementThreshold float64

	// Overlap path engine (component B).

	// MaxDFSCalls bounds the number of node expansions Find_Olap_Path
	// performs (MAXCALLS). Set to 1 to force deterministic failure.
	MaxDFSCalls int

	// Gap filling (component D).

	MinGoodLinks      int
	GoodLinksIfBad    int
	MinRockCoverStat  float64
	MinStoneCoverStat float64
	UsePartialPaths   bool
	SingleFragmentOnly bool
	SkipContainedStones bool
	MaxMateDistance   float64

	// Stone confirmation & insertion (component E).

	NumStdDevs           float64
	StonesPerCheckpoint  int
	DuplicatePositionTol float64

	// Positional bookkeeping (component A).

	FudgeFactor float64
	MinVariance float64
}

// Default returns the configuration recovered from GapWalkerREZ.c and
// MultiAlignUnitig.C's hard-coded constants, suitable as a starting point
// for a host that only wants to override a handful of fields.
func Default() Config {
	return Config{
		ErrorRateCeiling:              0.06,
		InitialErrorRate:              0.015,
		MinOverlapLen:                 40,
		FailureIsFatal:                false,
		MicroHetDisagreementThreshold: 0.2,

		MaxDFSCalls: 100000,

		MinGoodLinks:        2,
		GoodLinksIfBad:      4,
		MinRockCoverStat:    5.0,
		MinStoneCoverStat:   -4.0,
		UsePartialPaths:     false,
		SingleFragmentOnly:  false,
		SkipContainedStones: false,
		MaxMateDistance:     50000,

		NumStdDevs:           5.0,
		StonesPerCheckpoint:  1000,
		DuplicatePositionTol: 30,

		FudgeFactor: 0.024,
		MinVariance: 1.0,
	}
}
