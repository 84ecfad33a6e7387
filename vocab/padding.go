package vocab

// PadSequence returns a copy of seq with exactly length ids: longer sequences
// are truncated at the end, shorter ones padded at the end with PadID.
func PadSequence(seq []int, length int) []int {
	// PadID is the zero value, so make already fills the tail.
	out := make([]int, length)
	copy(out, seq)
	return out
}

// Pad applies PadSequence to every sequence.
func Pad(seqs [][]int, length int) [][]int {
	out := make([][]int, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, PadSequence(seq, length))
	}
	return out
}
