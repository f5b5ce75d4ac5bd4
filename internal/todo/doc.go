// Package todo models hierarchical to-do items and persists them as JSON.
//
// The items file lives at {HOME}/.todo_tui/items.json and holds a JSON array:
//
//	[
//	  {
//	    "title": "Groceries",
//	    "completed": false,
//	    "sub_items": [
//	      {"title": "Milk", "completed": true, "sub_items": []}
//	    ]
//	  }
//	]
//
// # Completion
//
// Completing or reopening an item forces the same state onto every
// descendant. Children never propagate their state back to a parent.
//
// # Persistence
//
// Save and Restore always operate on the whole tree. Restore parses and
// validates the file against an embedded JSON Schema before replacing the
// in-memory items, so a failed restore leaves the store unchanged. Missing
// fields, wrong types and unknown fields are rejected.
//
// Save does not create the .todo_tui directory unless the store was built
// with WithCreateDir(true).
//
// # Errors
//
//   - ErrHomeUnresolved: no home directory was configured
//   - ErrIndexOutOfRange: an index does not address a root item
//   - *IOError: reading or writing the file failed
//   - *DeserializeError: the file is not valid JSON or has the wrong shape
package todo
