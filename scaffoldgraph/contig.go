package scaffoldgraph

import "github.com/marbl/canu-cns/coord"

// ContigKind tags how a contig came to be in its scaffold, set at
// insertion time (spec.md section 4.E Insertion step 3: "Flag the unitig
// and contig with the kind tag").
type ContigKind uint8

const (
	// KindOriginal is a contig placed by the upstream scaffolder, before
	// this core runs.
	KindOriginal ContigKind = iota
	KindRock
	KindStone
	KindWalk
)

// Contig is an oriented sequence with two end positions in scaffold
// coordinates (spec.md section 3 "Contig"). A contig containing a single
// unitig is interchangeable with that unitig for graph purposes; UnitigID
// identifies that unitig when applicable.
type Contig struct {
	ID       ContigID
	Length   float64
	Scaffold ScaffoldID

	EndA coord.Position
	EndB coord.Position

	Flipped bool
	Kind    ContigKind

	// UnitigID is the backing unitig's id, used by gap-fill's
	// single-fragment-only stone gate and by insertion's kind tagging.
	UnitigID int32
	// Singleton is true when this contig's backing unitig has exactly
	// one fragment (spec.md section 4.D "single-fragment-only").
	Singleton bool

	// SourceContig is set on a cloned contig produced by a split
	// placement (spec.md section 4.E Insertion step 2), pointing back at
	// the contig it was cloned from.
	SourceContig ContigID
	CopyLetter   byte
}

// Ends implements coord.EndPositions.
func (c *Contig) Ends() (coord.Position, coord.Position) { return c.EndA, c.EndB }

// SetEnds implements coord.EndPositions.
func (c *Contig) SetEnds(a, b coord.Position) { c.EndA, c.EndB = a, b }

// Max returns the contig's larger-mean end position.
func (c *Contig) Max() coord.Position { return c.EndA.Max(c.EndB) }

// Min returns the contig's smaller-mean end position.
func (c *Contig) Min() coord.Position { return c.EndA.Min(c.EndB) }

// MinVariance returns the smaller of the contig's two end variances.
func (c *Contig) MinVariance() float64 {
	if c.EndA.Variance < c.EndB.Variance {
		return c.EndA.Variance
	}
	return c.EndB.Variance
}

// MaxVariance returns the larger of the contig's two end variances.
func (c *Contig) MaxVariance() float64 {
	if c.EndA.Variance > c.EndB.Variance {
		return c.EndA.Variance
	}
	return c.EndB.Variance
}

// Contains reports whether other lies entirely within c's [Min,Max] span.
func (c *Contig) Contains(other *Contig) bool {
	return c.Min().Mean <= other.Min().Mean && other.Max().Mean <= c.Max().Mean
}

// Scaffold is an ordered set of contigs with positional offsets (spec.md
// section 3 "Scaffold"). Contigs is kept in left-to-right scaffold order.
type Scaffold struct {
	ID      ScaffoldID
	Contigs []ContigID
}
