// =============================================================================
// Recycle Register - Relation Package: Row Mapper
// =============================================================================
//
// The Mapper owns the row correspondence between a main table and a sub
// table for one fixed binding (main key column, sub key column), and
// translates coordinates between the joined space and each source's space.
//
// INDEX MAPS:
//   IndexMap        main row -> sub row   (partial: unmatched rows absent)
//   ReverseIndexMap sub row  -> main row  (lowest main row wins)
//
// SNAPSHOTS:
//   Both maps live in one immutable snapshot. Rebuild computes a complete new
//   snapshot and swaps the pointer at the end, so a reader (including a
//   listener re-entered during a rebuild) only ever sees a whole snapshot.
//
// =============================================================================

package relation

import "fmt"

// SourceCoordinate is a coordinate resolved into one of the joined sources.
type SourceCoordinate struct {
	Source Table
	Row    int
	Column int
}

// snapshot is an immutable pair of index maps.
type snapshot struct {
	// forward[mainRow] is the matched sub row, or -1 when unmatched.
	forward []int

	// reverse maps sub rows to the lowest main row referring to them.
	reverse map[int]int
}

var emptySnapshot = &snapshot{reverse: map[int]int{}}

// Mapper maintains IndexMap and ReverseIndexMap for a fixed binding.
type Mapper struct {
	main       Table
	mainColumn int
	sub        Table
	subColumn  int

	current *snapshot
}

// NewMapper creates a Mapper and performs the initial rebuild.
func NewMapper(main Table, mainColumn int, sub Table, subColumn int) (*Mapper, error) {
	m := &Mapper{
		main:       main,
		mainColumn: mainColumn,
		sub:        sub,
		subColumn:  subColumn,
		current:    emptySnapshot,
	}

	if err := m.Rebuild(); err != nil {
		return nil, err
	}

	return m, nil
}

// Rebuild recomputes both index maps from the current contents of the
// sources and publishes them together.
//
// If a source read fails, an empty snapshot is published (every main row
// reads as unmatched) and the error is returned; the previous mapping is
// never kept past a failed rebuild.
func (m *Mapper) Rebuild() error {
	next, err := m.build()
	if err != nil {
		m.current = emptySnapshot
		return err
	}

	m.current = next
	return nil
}

// build computes a complete snapshot without touching m.current.
func (m *Mapper) build() (*snapshot, error) {
	subIndex, err := BuildKeyIndex(m.sub, m.subColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to index sub table: %w", err)
	}

	rows := m.main.RowCount()
	next := &snapshot{
		forward: make([]int, rows),
		reverse: make(map[int]int),
	}

	for row := 0; row < rows; row++ {
		next.forward[row] = -1

		key, err := m.main.Cell(row, m.mainColumn)
		if err != nil {
			return nil, fmt.Errorf("failed to read main key at row %d: %w", row, err)
		}

		if subRow, ok := subIndex.Lookup(key); ok {
			next.forward[row] = subRow
		}
	}

	next.deriveReverse()
	return next, nil
}

// Shift moves the current mapping along with rows inserted into or removed
// from src, without reading any keys. Inserted main rows are unmatched and
// main rows whose sub row was removed become unmatched until the next
// Rebuild; every other row keeps its partner at the partner's new position.
func (m *Mapper) Shift(src Table, op StructureOp, rows RowRange) {
	count := rows.Last - rows.First + 1
	if count <= 0 {
		return
	}

	forward := append([]int(nil), m.current.forward...)

	if src == m.sub {
		for mainRow, subRow := range forward {
			switch {
			case subRow < rows.First:
			case op == OpInsert:
				forward[mainRow] = subRow + count
			case subRow <= rows.Last:
				forward[mainRow] = -1
			default:
				forward[mainRow] = subRow - count
			}
		}
	}

	if src == m.main {
		first := min(rows.First, len(forward))
		switch op {
		case OpInsert:
			unmatched := make([]int, count)
			for i := range unmatched {
				unmatched[i] = -1
			}
			forward = append(forward[:first], append(unmatched, forward[first:]...)...)
		case OpRemove:
			last := min(first+count, len(forward))
			forward = append(forward[:first], forward[last:]...)
		}
	}

	next := &snapshot{forward: forward, reverse: make(map[int]int)}
	next.deriveReverse()
	m.current = next
}

// ToSource resolves a joined coordinate into the source that holds it.
//
// RETURNS:
//   - The resolved coordinate and true.
//   - false (NoMatch) when the column addresses the sub table and the row has
//     no matching sub row, or that sub row is past the end of the sub table.
func (m *Mapper) ToSource(c Coordinate) (SourceCoordinate, bool) {
	mainColumns := m.main.ColumnCount()

	if c.Column < mainColumns {
		return SourceCoordinate{Source: m.main, Row: c.Row, Column: c.Column}, true
	}

	subRow, ok := m.current.lookupForward(c.Row)
	if !ok {
		return SourceCoordinate{}, false
	}
	if subRow >= m.sub.RowCount() {
		return SourceCoordinate{}, false
	}

	return SourceCoordinate{Source: m.sub, Row: subRow, Column: c.Column - mainColumns}, true
}

// FromSource translates a coordinate in one of the sources into the joined
// space. Main coordinates pass through unchanged; sub coordinates go through
// ReverseIndexMap. Returns false for unknown sources and unmatched sub rows.
func (m *Mapper) FromSource(src Table, row, column int) (Coordinate, bool) {
	switch src {
	case m.main:
		return Coordinate{Row: row, Column: column}, true

	case m.sub:
		mainRow, ok := m.current.reverse[row]
		if !ok || mainRow >= m.main.RowCount() {
			return Coordinate{}, false
		}
		return Coordinate{Row: mainRow, Column: column + m.main.ColumnCount()}, true

	default:
		return Coordinate{}, false
	}
}

// IndexMap returns a copy of the current main -> sub mapping.
func (m *Mapper) IndexMap() map[int]int {
	out := make(map[int]int)
	for mainRow, subRow := range m.current.forward {
		if subRow >= 0 {
			out[mainRow] = subRow
		}
	}
	return out
}

// ReverseIndexMap returns a copy of the current sub -> main mapping.
func (m *Mapper) ReverseIndexMap() map[int]int {
	out := make(map[int]int, len(m.current.reverse))
	for subRow, mainRow := range m.current.reverse {
		out[subRow] = mainRow
	}
	return out
}

// MatchedCount returns the number of main rows with a matching sub row.
func (m *Mapper) MatchedCount() int {
	count := 0
	for _, subRow := range m.current.forward {
		if subRow >= 0 {
			count++
		}
	}
	return count
}

// lookupForward returns the sub row for a main row, if any. Rows past the
// end of the snapshot (inserted since the last rebuild) are unmatched.
func (s *snapshot) lookupForward(mainRow int) (int, bool) {
	if mainRow < 0 || mainRow >= len(s.forward) {
		return 0, false
	}
	subRow := s.forward[mainRow]
	return subRow, subRow >= 0
}

// deriveReverse fills reverse from forward in ascending main-row order; the
// first writer keeps the slot.
func (s *snapshot) deriveReverse() {
	for mainRow, subRow := range s.forward {
		if subRow < 0 {
			continue
		}
		if _, taken := s.reverse[subRow]; !taken {
			s.reverse[subRow] = mainRow
		}
	}
}
