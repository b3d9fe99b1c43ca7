// Package todo persists the task collection in a key-value store.
//
// The whole collection lives under one storage key (default "todos") as a
// JSON array:
//
//	[
//	  {"id": "5f0c...", "text": "Buy milk", "done": false},
//	  {"id": "9a41...", "text": "Walk dog", "done": true}
//	]
//
// Every mutation reads the whole array, changes it in memory and writes the
// whole array back. There is no partial write and no version field.
//
// # Legacy data
//
// Older collections store records without an id and may store done as 0 or 1.
// Both are accepted on read. Records without an id get a generated one, and
// the collection is written back at once so later operations can address them.
//
// # Corrupt data
//
// A stored value that is not valid JSON, or does not match the embedded JSON
// Schema, reads as an empty collection. The raw value is copied to
// "<key>.corrupt" before anything overwrites it.
//
// # Identity
//
// Remove, Toggle and Rename address a task by id. RemoveByText, ToggleByText
// and UpdateText address every task whose text is equal to the argument, which
// affects all duplicates.
package todo
