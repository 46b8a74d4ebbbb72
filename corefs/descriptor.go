package corefs

// fdBase is the first id handed out for a FileDescriptor. FD ids stay
// clear of low, platform-reserved descriptor numbers a bridge may
// synthesize.
const fdBase = 20

// FileDescriptor is an open handle: a bound file Entry, a current
// position, the POSIX open-flag semantics that governed the open() call,
// and a stable numeric id.
type FileDescriptor struct {
	id       uint64
	position int64

	readable  bool
	writable  bool
	appending bool
	exclusive bool
	creating  bool

	entry *Entry
}

// ID returns the descriptor's stable numeric id.
func (fd *FileDescriptor) ID() uint64 { return fd.id }
