// Package corefs is the in-memory POSIX-style filesystem core: a
// hierarchical namespace of directories and files held entirely in RAM,
// backed by inode metadata, sparse block vectors, extended attributes, and
// a descriptor table. It implements the lookup, mutation, read/write, and
// attribute operations the adapter package translates FUSE upcalls into.
//
// Grounded on the teacher's samples/memfs package (github.com/jacobsa/fuse),
// generalized so that Entry (name + xattrs) is separated from Inode (type,
// data, link count): hard links and rename can then share one Inode across
// many Entries.
package corefs

import (
	"time"

	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/go-memfs/memfs/internal/errno"
	"github.com/go-memfs/memfs/internal/platform"
)

// Attr is the metadata snapshot returned by Stat/Fstat.
type Attr struct {
	Ino   uint64
	Mode  uint32
	Uid   uint32
	Gid   uint32
	Nlink int
	Size  int64
	Blocks int64
	Dev   int64
	Rdev  int64
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// FileSystem is the top-level owner: the root directory, the inode
// counter, and the descriptor table. A single instance models a single
// mount.
//
// Single-threaded cooperative concurrency model: every exported method
// takes fs.mu for its entire duration, so operations
// observe a total order equal to their invocation order and no
// intermediate state is ever visible to a concurrent caller.
type FileSystem struct {
	clock timeutil.Clock

	mu syncutil.InvariantMutex // GUARDS everything below

	root    *Entry
	nextIno uint64
	fds     []*FileDescriptor // GUARDED_BY(mu); slot i holds id i+fdBase
}

// New creates a filesystem whose root is owned by uid/gid, using clock for
// timestamps.
func New(uid, gid uint32, clock timeutil.Clock) *FileSystem {
	fs := &FileSystem{clock: clock}

	now := clock.Now()
	root := newDirInode(1, uid, gid, now)
	fs.nextIno = 2
	fs.root = newEntry("", root)

	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)
	return fs
}

func (fs *FileSystem) checkInvariants() {
	if fs.root == nil || !fs.root.inode.isDir() {
		panic("corefs: root is not a directory")
	}
}

func (fs *FileSystem) now() time.Time { return fs.clock.Now() }

func (fs *FileSystem) allocIno() uint64 {
	id := fs.nextIno
	fs.nextIno++
	return id
}

////////////////////////////////////////////////////////////////////////
// Path resolution
////////////////////////////////////////////////////////////////////////

// lookupComponents walks comps from the root, returning the final Entry.
func (fs *FileSystem) lookupComponents(method string, comps []string) (*Entry, error) {
	cur := fs.root
	for _, name := range comps {
		if !cur.inode.isDir() {
			return nil, errno.New(errno.ENOTDIR, method, name, "not a directory")
		}
		i := findChild(cur.inode, name)
		if i < 0 {
			return nil, errno.New(errno.ENOENT, method, name, "no such file or directory")
		}
		cur = cur.inode.entries[i]
	}
	return cur, nil
}

func (fs *FileSystem) lookup(method, path string) (*Entry, error) {
	return fs.lookupComponents(method, splitPath(path))
}

// parentDir pops the last path component as name and resolves the
// remaining prefix, which must be a directory.
func (fs *FileSystem) parentDir(method, path string) (parent *Entry, name string, err error) {
	comps := splitPath(path)
	if len(comps) == 0 {
		err = errno.New(errno.EINVAL, method, path, "path has no last component")
		return
	}

	name = comps[len(comps)-1]
	parent, err = fs.lookupComponents(method, comps[:len(comps)-1])
	if err != nil {
		return
	}
	if !parent.inode.isDir() {
		parent = nil
		err = errno.New(errno.ENOTDIR, method, name, "not a directory")
		return
	}
	return
}

////////////////////////////////////////////////////////////////////////
// Directory operations
////////////////////////////////////////////////////////////////////////

// Readdir returns the ordered names of path's direct children.
func (fs *FileSystem) Readdir(path string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("readdir", path)
	if err != nil {
		return nil, err
	}
	if !e.inode.isDir() {
		return nil, errno.New(errno.ENOTDIR, "readdir", path, "not a directory")
	}
	return childNames(e.inode), nil
}

// Mkdir creates a new, empty directory at path.
func (fs *FileSystem) Mkdir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.parentDir("mkdir", path)
	if err != nil {
		return err
	}
	if findChild(parent.inode, name) >= 0 {
		return errno.New(errno.EEXIST, "mkdir", name, "already exists")
	}

	now := fs.now()
	child := newDirInode(fs.allocIno(), parent.inode.uid, parent.inode.gid, now)
	addChild(parent.inode, newEntry(name, child))
	parent.inode.mtime = now
	return nil
}

// Create creates a new, empty regular file at path, or resets it in place
// if an entry with that name already exists. mode is accepted for
// interface fidelity but ignored.
func (fs *FileSystem) Create(path string, mode uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.parentDir("create", path)
	if err != nil {
		return err
	}
	fs.create(parent, name)
	return nil
}

// create appends a new file entry, or resets the existing one in place.
// EXCLUSIVE_LOCKS_REQUIRED(fs.mu)
func (fs *FileSystem) create(parent *Entry, name string) *Entry {
	now := fs.now()
	if i := findChild(parent.inode, name); i >= 0 {
		e := parent.inode.entries[i]
		e.inode.resetFile(now)
		return e
	}

	child := newFileInode(fs.allocIno(), parent.inode.uid, parent.inode.gid, now)
	e := newEntry(name, child)
	addChild(parent.inode, e)
	parent.inode.mtime = now
	return e
}

// Unlink removes the file entry at path.
func (fs *FileSystem) Unlink(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.parentDir("unlink", path)
	if err != nil {
		return err
	}
	i := findChild(parent.inode, name)
	if i < 0 {
		return errno.New(errno.ENOENT, "unlink", name, "no such file or directory")
	}
	e := parent.inode.entries[i]
	if e.inode.isDir() {
		return errno.New(errno.EPERM, "unlink", name, "is a directory")
	}

	removeChildAt(parent.inode, i)
	e.inode.nlink--
	parent.inode.mtime = fs.now()
	return nil
}

// Rmdir removes the empty directory entry at path.
func (fs *FileSystem) Rmdir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.parentDir("rmdir", path)
	if err != nil {
		return err
	}
	i := findChild(parent.inode, name)
	if i < 0 {
		return errno.New(errno.ENOENT, "rmdir", name, "no such file or directory")
	}
	e := parent.inode.entries[i]
	if !e.inode.isDir() {
		return errno.New(errno.ENOTDIR, "rmdir", name, "not a directory")
	}
	if len(e.inode.entries) != 0 {
		return errno.New(errno.ENOTEMPTY, "rmdir", name, "directory not empty")
	}

	removeChildAt(parent.inode, i)
	e.inode.nlink--
	parent.inode.mtime = fs.now()
	return nil
}

////////////////////////////////////////////////////////////////////////
// Hard links and rename
////////////////////////////////////////////////////////////////////////

// Link creates a new entry at `to` sharing the inode resolved from
// `from`.
func (fs *FileSystem) Link(from, to string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	src, err := fs.lookup("link", from)
	if err != nil {
		return err
	}
	if src.inode.isDir() {
		return errno.New(errno.EISDIR, "link", from, "is a directory")
	}

	parent, name, err := fs.parentDir("link", to)
	if err != nil {
		return err
	}
	if findChild(parent.inode, name) >= 0 {
		return errno.New(errno.EEXIST, "link", name, "already exists")
	}

	addChild(parent.inode, newEntry(name, src.inode))
	src.inode.nlink++
	parent.inode.mtime = fs.now()
	return nil
}

// Rename moves the entry at `from` to `to`, atomically replacing any
// existing binding at `to` subject to the directory-emptiness rules.
func (fs *FileSystem) Rename(from, to string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fromParent, fromName, err := fs.parentDir("rename", from)
	if err != nil {
		return err
	}
	fi := findChild(fromParent.inode, fromName)
	if fi < 0 {
		return errno.New(errno.ENOENT, "rename", from, "no such file or directory")
	}
	fe := fromParent.inode.entries[fi]

	toParent, toName, err := fs.parentDir("rename", to)
	if err != nil {
		return err
	}

	now := fs.now()

	if ti := findChild(toParent.inode, toName); ti >= 0 {
		te := toParent.inode.entries[ti]
		if te == fe {
			// Renaming an entry onto itself: a no-op.
			return nil
		}
		switch {
		case te.inode.isDir() && !fe.inode.isDir():
			return errno.New(errno.EISDIR, "rename", to, "is a directory")
		case fe.inode.isDir() && !te.inode.isDir():
			return errno.New(errno.ENOTDIR, "rename", to, "not a directory")
		case fe.inode.isDir() && te.inode.isDir() && len(te.inode.entries) != 0:
			return errno.New(errno.ENOTEMPTY, "rename", to, "directory not empty")
		}

		removeChildAt(toParent.inode, ti)
		te.inode.nlink--
	}

	// Re-find fi: if fromParent == toParent, removing te above may have
	// shifted fe's index.
	fi = findChild(fromParent.inode, fromName)
	removeChildAt(fromParent.inode, fi)

	fe.name = toName
	addChild(toParent.inode, fe)

	fromParent.inode.mtime = now
	toParent.inode.mtime = now
	return nil
}

////////////////////////////////////////////////////////////////////////
// Extended attributes
////////////////////////////////////////////////////////////////////////

func (fs *FileSystem) Setxattr(path, name string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("setxattr", path)
	if err != nil {
		return err
	}
	e.setXattr(name, value)
	return nil
}

func (fs *FileSystem) Getxattr(path, name string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("getxattr", path)
	if err != nil {
		return nil, err
	}
	v, ok := e.getXattr(name)
	if !ok {
		return nil, errno.New(errno.ENOENT, "getxattr", name, "no such attribute")
	}
	return v, nil
}

func (fs *FileSystem) Listxattr(path string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("listxattr", path)
	if err != nil {
		return nil, err
	}
	return e.listXattr(), nil
}

func (fs *FileSystem) Removexattr(path, name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("removexattr", path)
	if err != nil {
		return err
	}
	e.removeXattr(name) // silently no-ops if absent
	return nil
}

////////////////////////////////////////////////////////////////////////
// FileDescriptor and open
////////////////////////////////////////////////////////////////////////

// Open resolves path per the open-flag precedence table and returns a
// stable descriptor id.
func (fs *FileSystem) Open(path string, flag uint32, mode uint32) (uint64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	c := platform.Default
	accessMode := platform.AccessMode(c, flag)
	readOnly := accessMode == c.O_RDONLY
	writable := accessMode == c.O_WRONLY || accessMode == c.O_RDWR
	appending := flag&c.O_APPEND != 0
	exclusive := flag&c.O_EXCL != 0
	creating := flag&c.O_CREAT != 0

	parent, name, err := fs.parentDir("open", path)
	if err != nil {
		return 0, err
	}

	now := fs.now()
	i := findChild(parent.inode, name)
	var e *Entry

	if i >= 0 {
		e = parent.inode.entries[i]
		if e.inode.isDir() {
			return 0, errno.New(errno.EPERM, "open", name, "is not a regular file")
		}
		if exclusive {
			return 0, errno.New(errno.EEXIST, "open", name, "already exists")
		}
		if writable && !appending {
			e.inode.resetFile(now)
		}
	} else {
		if readOnly {
			return 0, errno.New(errno.ENOENT, "open", name, "no such file or directory")
		}
		if !creating {
			return 0, errno.New(errno.ENOENT, "open", name, "no such file or directory")
		}
		e = fs.create(parent, name)
	}

	fd := &FileDescriptor{
		readable:  accessMode == c.O_RDONLY || accessMode == c.O_RDWR,
		writable:  writable,
		appending: appending,
		exclusive: exclusive,
		creating:  creating,
		entry:     e,
	}
	if appending {
		fd.position = e.inode.size
	}

	fd.id = uint64(len(fs.fds)) + fdBase
	fs.fds = append(fs.fds, fd)
	return fd.id, nil
}

func (fs *FileSystem) getFD(method string, id uint64) (*FileDescriptor, error) {
	if id < fdBase {
		return nil, errno.New(errno.EBADF, method, "", "bad file descriptor")
	}
	idx := int(id - fdBase)
	if idx < 0 || idx >= len(fs.fds) || fs.fds[idx] == nil {
		return nil, errno.New(errno.EBADF, method, "", "bad file descriptor")
	}
	return fs.fds[idx], nil
}

// Close releases fd. The slot becomes null and any trailing null slots
// are trimmed, so the descriptor table compacts naturally as the teacher's
// inode free-list does (samples/memfs/fs.go's deallocateInode).
func (fs *FileSystem) Close(id uint64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.getFD("close", id); err != nil {
		return err
	}

	idx := int(id - fdBase)
	fs.fds[idx] = nil

	n := len(fs.fds)
	for n > 0 && fs.fds[n-1] == nil {
		n--
	}
	fs.fds = fs.fds[:n]
	return nil
}

// Read serves a pread/read against fd. If position is non-nil, the
// descriptor's position is set to *position first (pread semantics).
func (fs *FileSystem) Read(id uint64, buf []byte, position *int64) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fd, err := fs.getFD("read", id)
	if err != nil {
		return 0, err
	}
	if position != nil {
		fd.position = *position
	}

	n := fileRead(fd.entry, fd.position, buf, fs.now())
	fd.position += int64(n)
	return n, nil
}

// Write serves a pwrite/write against fd, symmetric with Read.
func (fs *FileSystem) Write(id uint64, buf []byte, position *int64) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fd, err := fs.getFD("write", id)
	if err != nil {
		return 0, err
	}
	if position != nil {
		fd.position = *position
	}

	fileWrite(fd.entry, fd.position, buf, fs.now())
	fd.position += int64(len(buf))
	return len(buf), nil
}

////////////////////////////////////////////////////////////////////////
// File operations
////////////////////////////////////////////////////////////////////////

// Truncate resizes the regular file at path.
func (fs *FileSystem) Truncate(path string, size int64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("truncate", path)
	if err != nil {
		return err
	}
	if e.inode.isDir() {
		return errno.New(errno.EISDIR, "truncate", path, "is a directory")
	}
	fileTruncate(e, size, fs.now())
	return nil
}

// Ftruncate is Truncate addressed by open descriptor.
func (fs *FileSystem) Ftruncate(id uint64, size int64) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fd, err := fs.getFD("ftruncate", id)
	if err != nil {
		return err
	}
	fileTruncate(fd.entry, size, fs.now())
	return nil
}

////////////////////////////////////////////////////////////////////////
// Metadata operations
////////////////////////////////////////////////////////////////////////

func attrOf(e *Entry) Attr {
	in := e.inode
	size := in.size
	if in.isDir() {
		size = 512
	}
	return Attr{
		Ino:    in.ino,
		Mode:   in.mode,
		Uid:    in.uid,
		Gid:    in.gid,
		Nlink:  in.nlink,
		Size:   size,
		Blocks: (size + 511) / 512,
		Atime:  in.atime,
		Mtime:  in.mtime,
		Ctime:  in.ctime,
	}
}

func (fs *FileSystem) Stat(path string) (Attr, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("stat", path)
	if err != nil {
		return Attr{}, err
	}
	return attrOf(e), nil
}

func (fs *FileSystem) Fstat(id uint64) (Attr, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fd, err := fs.getFD("fstat", id)
	if err != nil {
		return Attr{}, err
	}
	return attrOf(fd.entry), nil
}

// Chmod rewrites permission bits, preserving the inode's type bit.
func (fs *FileSystem) Chmod(path string, mode uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("chmod", path)
	if err != nil {
		return err
	}

	typeBit := e.inode.mode & (platform.Default.IFDIR | platform.Default.IFREG)
	e.inode.mode = typeBit | (mode &^ (platform.Default.IFDIR | platform.Default.IFREG))
	e.inode.ctime = fs.now()
	return nil
}

// Chown overwrites ownership. (Named per the corrected signature of
// the source's chown referenced an undefined `mode`.)
func (fs *FileSystem) Chown(path string, uid, gid uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("chown", path)
	if err != nil {
		return err
	}
	e.inode.uid = uid
	e.inode.gid = gid
	e.inode.ctime = fs.now()
	return nil
}

// Utimes sets atime/mtime. (Named per the corrected signature of
// the source's utimes referenced an undefined `mode`.)
func (fs *FileSystem) Utimes(path string, atime, mtime time.Time) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	e, err := fs.lookup("utimes", path)
	if err != nil {
		return err
	}
	e.inode.atime = atime
	e.inode.mtime = mtime
	return nil
}

////////////////////////////////////////////////////////////////////////
// Supplemental operations
////////////////////////////////////////////////////////////////////////

// Access resolves path and reports whether it exists. No permission bits
// are checked.
func (fs *FileSystem) Access(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, err := fs.lookup("access", path)
	return err
}

// StatfsResult is a placeholder: Files is the number of inode numbers
// allocated so far (unlinked inodes included); every other field is a
// fixed value.
type StatfsResult struct {
	Bsize   uint32
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Namelen uint32
}

func (fs *FileSystem) Statfs() StatfsResult {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return StatfsResult{
		Bsize:   blockSize,
		Blocks:  1 << 20,
		Bfree:   1 << 20,
		Bavail:  1 << 20,
		Files:   fs.nextIno - 1,
		Ffree:   1 << 20,
		Namelen: 255,
	}
}
