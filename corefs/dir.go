package corefs

// findChild returns the index of the child entry named name within dir's
// inode, or -1 if absent. REQUIRES: dir.isDir().
func findChild(dir *Inode, name string) int {
	for i, c := range dir.entries {
		if c.name == name {
			return i
		}
	}
	return -1
}

// childNames returns the ordered names of dir's direct children:
// insertion order preserved, no "." or ".." synthesized (the adapter's
// Readdir passes these names through unchanged).
func childNames(dir *Inode) []string {
	names := make([]string, len(dir.entries))
	for i, c := range dir.entries {
		names[i] = c.name
	}
	return names
}

// addChild appends a new child entry, preserving insertion order.
func addChild(dir *Inode, child *Entry) {
	dir.entries = append(dir.entries, child)
}

// removeChildAt removes the child at index i, preserving the order of the
// remaining entries.
func removeChildAt(dir *Inode, i int) *Entry {
	e := dir.entries[i]
	dir.entries = append(dir.entries[:i], dir.entries[i+1:]...)
	return e
}
