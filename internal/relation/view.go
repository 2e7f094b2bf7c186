// =============================================================================
// Recycle Register - Relation Package: Joined View
// =============================================================================
//
// JoinedView presents a main table and a sub table, joined on one key column
// each, as a single Table.
//
// SHAPE:
//   rows    = main rows (left-style join: unmatched rows stay, sub side empty)
//   columns = main columns followed by sub columns
//
// EVENTS:
//   main structure events  -> re-emitted verbatim (rows map 1:1); on
//                             StructureChanged the mapping is shifted first
//                             so inserted rows read unmatched
//   main content events    -> Mapper rebuild, then re-emitted
//   sub content events     -> translated through ReverseIndexMap, re-emitted
//                             only when both corners have a joined position
//   sub structure events   -> mapping shifted, not re-emitted (sub rows are
//                             not view rows)
//
//   Sub events trigger a rebuild only with WithRebuildOnSubChange(true).
//   Without it the sub key index can go stale when the sub key column is
//   edited on its own; the next main content change repairs it.
//
// CAPABILITY FORWARDING:
//   HeaderLabel and Name are forwarded verbatim to the main source. Nothing
//   else is forwarded.
//
// =============================================================================

package relation

import (
	"fmt"

	"github.com/ginjaninja78/recycle-register/internal/logging"
)

// JoinedView is a live, read-only join of two tables.
type JoinedView struct {
	Notifier

	main Table
	sub  Table

	mapper *Mapper

	rebuildOnSubChange bool
	logger             logging.Logger

	cancels []func()
}

// Option configures a JoinedView.
type Option func(*JoinedView)

// WithRebuildOnSubChange makes sub-side content and structure changes rebuild
// the index, at the cost of an O(main+sub) scan per sub edit.
func WithRebuildOnSubChange(enabled bool) Option {
	return func(v *JoinedView) {
		v.rebuildOnSubChange = enabled
	}
}

// WithLogger sets the logger used to report rebuilds and rebuild failures.
func WithLogger(logger logging.Logger) Option {
	return func(v *JoinedView) {
		v.logger = logger
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// NewJoinedView binds main and sub on their key columns.
//
// PARAMETERS:
//   - main: The table whose rows define the view's rows.
//   - mainColumn: The key column in main.
//   - sub: The table looked up by key.
//   - subColumn: The key column in sub.
//
// RETURNS:
//   - The view, subscribed to both sources.
//   - An error wrapping ErrInvalidBinding for nil sources or key columns
//     outside the sources' column counts.
func NewJoinedView(main Table, mainColumn int, sub Table, subColumn int, opts ...Option) (*JoinedView, error) {
	if main == nil || sub == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidBinding)
	}
	if mainColumn < 0 || mainColumn >= main.ColumnCount() {
		return nil, fmt.Errorf("%w: main key column %d not in [0, %d)", ErrInvalidBinding, mainColumn, main.ColumnCount())
	}
	if subColumn < 0 || subColumn >= sub.ColumnCount() {
		return nil, fmt.Errorf("%w: sub key column %d not in [0, %d)", ErrInvalidBinding, subColumn, sub.ColumnCount())
	}

	v := &JoinedView{
		main:   main,
		sub:    sub,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}

	mapper, err := NewMapper(main, mainColumn, sub, subColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to build join index: %w", err)
	}
	v.mapper = mapper

	v.cancels = append(v.cancels, main.Subscribe(v.onMainEvent))
	if sub != main {
		v.cancels = append(v.cancels, sub.Subscribe(v.onSubEvent))
	}

	return v, nil
}

// Close detaches the view from both sources. The view stays readable but no
// longer tracks changes.
func (v *JoinedView) Close() {
	for _, cancel := range v.cancels {
		cancel()
	}
	v.cancels = nil
}

// =============================================================================
// TABLE IMPLEMENTATION
// =============================================================================

// RowCount returns the main table's row count.
func (v *JoinedView) RowCount() int {
	return v.main.RowCount()
}

// ColumnCount returns the main column count plus the sub column count.
func (v *JoinedView) ColumnCount() int {
	return v.main.ColumnCount() + v.sub.ColumnCount()
}

// Cell reads a joined cell. Sub-side cells of unmatched rows are NoValue.
func (v *JoinedView) Cell(row, column int) (Value, error) {
	if row < 0 || row >= v.RowCount() || column < 0 || column >= v.ColumnCount() {
		return NoValue, fmt.Errorf("%w: (%d, %d) in %dx%d view", ErrOutOfRange, row, column, v.RowCount(), v.ColumnCount())
	}

	resolved, ok := v.mapper.ToSource(Coordinate{Row: row, Column: column})
	if !ok {
		return NoValue, nil
	}

	return resolved.Source.Cell(resolved.Row, resolved.Column)
}

// Mapper exposes the view's row mapper.
func (v *JoinedView) Mapper() *Mapper {
	return v.mapper
}

// Main returns the main source.
func (v *JoinedView) Main() Table {
	return v.main
}

// Sub returns the sub source.
func (v *JoinedView) Sub() Table {
	return v.sub
}

// =============================================================================
// CAPABILITY FORWARDING
// =============================================================================

// HeaderLabel forwards to the main source's HeaderLabel.
func (v *JoinedView) HeaderLabel(column int) (string, error) {
	h, ok := v.main.(Headered)
	if !ok {
		return "", fmt.Errorf("%w: HeaderLabel", ErrUnsupported)
	}
	return h.HeaderLabel(column)
}

// Name forwards to the main source's Name, or "" when it has none. Unlike
// HeaderLabel it has no error return.
func (v *JoinedView) Name() string {
	if n, ok := v.main.(Named); ok {
		return n.Name()
	}
	return ""
}

// ColumnLabel resolves a header through the joined column space: main
// headers first, then sub headers. Unlike HeaderLabel it covers every view
// column.
func (v *JoinedView) ColumnLabel(column int) (string, error) {
	if column < 0 || column >= v.ColumnCount() {
		return "", fmt.Errorf("%w: column %d", ErrOutOfRange, column)
	}

	src, local := v.main, column
	if column >= v.main.ColumnCount() {
		src, local = v.sub, column-v.main.ColumnCount()
	}

	h, ok := src.(Headered)
	if !ok {
		return fmt.Sprintf("Column_%d", column+1), nil
	}
	return h.HeaderLabel(local)
}

// =============================================================================
// EVENT HANDLING
// =============================================================================

// onMainEvent handles events raised by the main source.
func (v *JoinedView) onMainEvent(e Event) {
	switch e.Kind {
	case StructureWillChange:
		e.Source = v
		v.Emit(e)

	case StructureChanged:
		v.mapper.Shift(v.main, e.Op, e.Rows)
		e.Source = v
		v.Emit(e)

	case ContentChanged:
		v.rebuild("main")
		v.forwardContent(e)
	}
}

// onSubEvent handles events raised by the sub source.
func (v *JoinedView) onSubEvent(e Event) {
	switch e.Kind {
	case StructureChanged:
		v.mapper.Shift(v.sub, e.Op, e.Rows)
		if v.rebuildOnSubChange {
			v.rebuild("sub")
		}

	case ContentChanged:
		if v.rebuildOnSubChange {
			v.rebuild("sub")
		}
		v.forwardContent(e)
	}
}

// forwardContent translates both corners of a content event and emits it on
// the view. Nothing is emitted if either corner has no joined position.
func (v *JoinedView) forwardContent(e Event) {
	topLeft, ok := v.mapper.FromSource(e.Source, e.TopLeft.Row, e.TopLeft.Column)
	if !ok {
		return
	}
	bottomRight, ok := v.mapper.FromSource(e.Source, e.BottomRight.Row, e.BottomRight.Column)
	if !ok {
		return
	}

	// Reverse mapping does not preserve row order.
	if topLeft.Row > bottomRight.Row {
		topLeft.Row, bottomRight.Row = bottomRight.Row, topLeft.Row
	}

	v.Emit(Event{
		Kind:        ContentChanged,
		Source:      v,
		TopLeft:     topLeft,
		BottomRight: bottomRight,
	})
}

func (v *JoinedView) rebuild(origin string) {
	if err := v.mapper.Rebuild(); err != nil {
		v.logger.Error("join index rebuild after %s change failed: %v", origin, err)
		return
	}
	v.logger.Debug("join index rebuilt after %s change: %d of %d rows matched",
		origin, v.mapper.MatchedCount(), v.main.RowCount())
}
