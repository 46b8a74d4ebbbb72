package corefs

// Entry is a (name, inode) binding living in a parent directory's child
// list. It carries its own extended-attribute map — xattrs are per-Entry,
// not per-Inode, which means hard-linked entries have independent xattr
// sets (this matches the teacher's source and is a deliberate deviation
// from Linux semantics).
type Entry struct {
	name  string
	inode *Inode

	xattrs    map[string][]byte
	xattrKeys []string // insertion order, for listxattr
}

func newEntry(name string, inode *Inode) *Entry {
	return &Entry{
		name:   name,
		inode:  inode,
		xattrs: make(map[string][]byte),
	}
}

func (e *Entry) setXattr(name string, value []byte) {
	if _, ok := e.xattrs[name]; !ok {
		e.xattrKeys = append(e.xattrKeys, name)
	}
	// Copy so the caller's buffer can't mutate stored state later.
	v := make([]byte, len(value))
	copy(v, value)
	e.xattrs[name] = v
}

func (e *Entry) getXattr(name string) ([]byte, bool) {
	v, ok := e.xattrs[name]
	return v, ok
}

func (e *Entry) listXattr() []string {
	out := make([]string, len(e.xattrKeys))
	copy(out, e.xattrKeys)
	return out
}

func (e *Entry) removeXattr(name string) {
	if _, ok := e.xattrs[name]; !ok {
		return
	}
	delete(e.xattrs, name)
	for i, k := range e.xattrKeys {
		if k == name {
			e.xattrKeys = append(e.xattrKeys[:i], e.xattrKeys[i+1:]...)
			break
		}
	}
}
