package cursor

import "github.com/rivo/uniseg"

// DisplayColumn returns the terminal cell column at which byte column col of
// line starts. Grapheme clusters are measured with their East Asian width,
// tabs advance to the next multiple of tabWidth.
//
// A byte column inside a grapheme cluster maps to the cluster's start cell.
func DisplayColumn(line []byte, col, tabWidth int) int {
	if col <= 0 {
		return 0
	}
	if col > len(line) {
		col = len(line)
	}
	if tabWidth <= 0 {
		tabWidth = 4
	}

	cells := 0
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster []byte
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeCluster(rest, state)
		if pos+len(cluster) > col {
			break
		}
		cells += clusterCells(cluster, width, cells, tabWidth)
		pos += len(cluster)
	}
	return cells
}

// ByteColumn returns the byte column of the grapheme cluster occupying
// display cell cell. Cells past the end of the line map to len(line).
func ByteColumn(line []byte, cell, tabWidth int) int {
	if cell <= 0 {
		return 0
	}
	if tabWidth <= 0 {
		tabWidth = 4
	}

	cells := 0
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster []byte
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeCluster(rest, state)
		w := clusterCells(cluster, width, cells, tabWidth)
		if cells+w > cell {
			return pos
		}
		cells += w
		pos += len(cluster)
	}
	return pos
}

// NextGrapheme returns the byte column just after the grapheme cluster that
// starts at or contains col. It is used by views to step the caret without
// landing inside a multi-byte sequence.
func NextGrapheme(line []byte, col int) int {
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		pos += len(cluster)
		if pos > col {
			return pos
		}
	}
	return len(line)
}

// PrevGrapheme returns the byte column where the grapheme cluster ending at
// or containing col-1 starts.
func PrevGrapheme(line []byte, col int) int {
	if col <= 0 {
		return 0
	}
	if col > len(line) {
		col = len(line)
	}
	pos := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.FirstGraphemeCluster(rest, state)
		if pos+len(cluster) >= col {
			return pos
		}
		pos += len(cluster)
	}
	return pos
}

func clusterCells(cluster []byte, width, at, tabWidth int) int {
	if len(cluster) == 1 && cluster[0] == '\t' {
		return tabWidth - at%tabWidth
	}
	if width <= 0 {
		return 0
	}
	return width
}
