// =============================================================================
// Recycle Register - Relation Package: Table Contract
// =============================================================================
//
// This file defines the minimal tabular contract shared by every participant
// of a join: plain in-memory tables, spreadsheet-backed tables, and joined
// views themselves. Because a JoinedView satisfies Table, a view can serve as
// the main or sub source of another view.
//
// CONTRACT:
//   - RowCount / ColumnCount describe the current shape.
//   - Cell reads a single value by 0-based position.
//   - Subscribe registers a Listener for structure and content events and
//     returns a function that detaches it.
//
// OPTIONAL CAPABILITIES:
//   Headered and Named are capabilities a table may or may not implement.
//   JoinedView forwards them to its main source explicitly.
//
// =============================================================================

package relation

import "fmt"

// =============================================================================
// TABLE INTERFACE
// =============================================================================

// Table is a positionally addressed, observable grid of values.
type Table interface {
	// RowCount returns the number of rows currently in the table.
	RowCount() int

	// ColumnCount returns the number of columns currently in the table.
	ColumnCount() int

	// Cell returns the value at (row, column).
	// Returns an error wrapping ErrOutOfRange if either index is invalid.
	Cell(row, column int) (Value, error)

	// Subscribe registers a listener for change events.
	// The returned function removes the listener; calling it twice is a no-op.
	Subscribe(listener Listener) (cancel func())
}

// Headered is implemented by tables that carry column header labels.
type Headered interface {
	HeaderLabel(column int) (string, error)
}

// Named is implemented by tables that carry a display name (a sheet name,
// a file name).
type Named interface {
	Name() string
}

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies the kind of change carried by an Event.
type EventKind int

const (
	// StructureWillChange is emitted before rows are inserted or removed.
	StructureWillChange EventKind = iota

	// StructureChanged is emitted after rows were inserted or removed.
	StructureChanged

	// ContentChanged is emitted after cell values changed inside the
	// rectangle TopLeft..BottomRight (inclusive).
	ContentChanged
)

// String returns the string representation of an EventKind.
func (k EventKind) String() string {
	switch k {
	case StructureWillChange:
		return "StructureWillChange"
	case StructureChanged:
		return "StructureChanged"
	case ContentChanged:
		return "ContentChanged"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// StructureOp tells whether a structural event inserts or removes rows.
type StructureOp int

const (
	// OpInsert means rows First..Last are (being) inserted.
	OpInsert StructureOp = iota

	// OpRemove means rows First..Last are (being) removed.
	OpRemove
)

// Coordinate is a (row, column) pair in some table's space.
type Coordinate struct {
	Row    int
	Column int
}

// RowRange is an inclusive range of rows.
type RowRange struct {
	First int
	Last  int
}

// Event describes a change raised by a Table.
type Event struct {
	// Kind is the kind of change.
	Kind EventKind

	// Source is the table that emitted the event.
	Source Table

	// Op and Rows are set for structural events.
	Op   StructureOp
	Rows RowRange

	// TopLeft and BottomRight are set for content events.
	TopLeft     Coordinate
	BottomRight Coordinate
}

// Listener receives events. Listeners run synchronously on the goroutine
// that mutated the source.
type Listener func(Event)

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier is an embeddable listener registry. The zero value is ready to use.
//
// Emit takes a snapshot of the registered listeners before delivery, so a
// listener may subscribe or cancel other listeners while being notified.
type Notifier struct {
	nextID    int
	listeners []registration
}

type registration struct {
	id       int
	listener Listener
}

// Subscribe registers a listener and returns its cancel function.
func (n *Notifier) Subscribe(listener Listener) func() {
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, registration{id: id, listener: listener})

	return func() {
		for i, r := range n.listeners {
			if r.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers an event to every listener registered at call time.
func (n *Notifier) Emit(event Event) {
	snapshot := make([]registration, len(n.listeners))
	copy(snapshot, n.listeners)

	for _, r := range snapshot {
		r.listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	return len(n.listeners)
}
