package extents

// ClusterMapping is the location of a single cluster of a file.
type ClusterMapping struct {
	VCN int64
	LCN int64
}

// FileClusterMap lists the locations of all allocated clusters of a
// file, in ascending VCN order. Unallocated regions of sparse files
// have no entries.
type FileClusterMap []ClusterMapping

// IsContiguous returns whether the clusters of the file occupy a
// single unbroken range of LCNs in VCN order. Empty maps and maps with
// a single entry are contiguous.
func (m FileClusterMap) IsContiguous() bool {
	for i := 1; i < len(m); i++ {
		if m[i].LCN != m[i-1].LCN+1 {
			return false
		}
	}
	return true
}

// GetLCNs returns the LCNs of all clusters of the file in VCN order.
func (m FileClusterMap) GetLCNs() []int64 {
	lcns := make([]int64, 0, len(m))
	for _, mapping := range m {
		lcns = append(lcns, mapping.LCN)
	}
	return lcns
}
