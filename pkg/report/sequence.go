package report

import "github.com/askiada/macsima-report/pkg/macsima"

// SequencedBlock is a protocol block annotated by the sequencer. The embedded
// block is never mutated; annotations live alongside it.
type SequencedBlock struct {
	macsima.Block
	// CycleNumber is the 1-based run-cycle index, 0 for every other kind.
	CycleNumber int
	// EffectiveMagnification is the raw magnification in force at this block
	// after forward propagation, "" when no block has set one yet.
	EffectiveMagnification string
}

// WrapBlocks lifts a procedure's block list into sequenced blocks with no
// annotations yet.
func WrapBlocks(blocks []macsima.Block) []SequencedBlock {
	out := make([]SequencedBlock, len(blocks))
	for i, b := range blocks {
		out[i] = SequencedBlock{Block: b}
	}

	return out
}

// AssignCycleNumbers numbers the run-cycle blocks 1..k in list order. Other
// kinds keep a zero cycle number. The input is not modified.
func AssignCycleNumbers(blocks []SequencedBlock) []SequencedBlock {
	out := make([]SequencedBlock, len(blocks))
	cycle := 0
	for i, b := range blocks {
		if b.Kind() == macsima.KindRunCycle {
			cycle++
			b.CycleNumber = cycle
		}
		out[i] = b
	}

	return out
}

// PropagateMagnification carries the last explicitly set magnification forward
// onto every block. Blocks before the first explicit value keep "". The input
// is not modified.
func PropagateMagnification(blocks []SequencedBlock) []SequencedBlock {
	out := make([]SequencedBlock, len(blocks))
	last := ""
	for i, b := range blocks {
		if b.Block.Magnification != "" {
			last = b.Block.Magnification
		}
		b.EffectiveMagnification = last
		out[i] = b
	}

	return out
}

// SequenceBlocks applies both sequencing passes. The passes touch disjoint
// annotations, so their order does not matter.
func SequenceBlocks(blocks []macsima.Block) []SequencedBlock {
	return PropagateMagnification(AssignCycleNumbers(WrapBlocks(blocks)))
}
