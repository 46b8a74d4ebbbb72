package corefs

import (
	"time"

	"github.com/go-memfs/memfs/internal/platform"
)

// blockSize is the unit of file storage allocation.
const blockSize = 1 << 20 // 1 MiB

// Inode is the identity of a filesystem object: type bits, permission
// bits, ownership, timestamps, link count, a unique inode number, and
// either a child list (directories) or a sparse block vector plus a
// logical size (regular files).
//
// Multiple Entries may reference one Inode (hard links); see
// samples/memfs/inode.go in the teacher for the single-Entry precursor
// this generalizes.
type Inode struct {
	ino   uint64
	mode  uint32 // type bits | permission bits, exactly one type bit set
	uid   uint32
	gid   uint32
	nlink int

	atime time.Time
	mtime time.Time
	ctime time.Time

	// Directories only. Ordered; see childNames / addChild in dir.go.
	entries []*Entry

	// Files only. Sparse, indexed by offset/blockSize. A missing index
	// reads as a zero-filled block.
	blocks map[int][]byte
	size   int64
}

func newDirInode(ino uint64, uid, gid uint32, now time.Time) *Inode {
	return &Inode{
		ino:   ino,
		mode:  platform.Default.IFDIR | 0o555 | 0o333,
		uid:   uid,
		gid:   gid,
		nlink: 1,
		atime: now,
		mtime: now,
		ctime: now,
		size:  512,
	}
}

func newFileInode(ino uint64, uid, gid uint32, now time.Time) *Inode {
	return &Inode{
		ino:    ino,
		mode:   platform.Default.IFREG | 0o444 | 0o222,
		uid:    uid,
		gid:    gid,
		nlink:  1,
		atime:  now,
		mtime:  now,
		ctime:  now,
		blocks: make(map[int][]byte),
	}
}

func (in *Inode) isDir() bool {
	return in.mode&platform.Default.IFDIR != 0
}

// resetFile clears a file inode's contents in place (used by create's
// reset-in-place semantics and by open's O_RDWR-without-O_TRUNC reset).
func (in *Inode) resetFile(now time.Time) {
	in.blocks = make(map[int][]byte)
	in.size = 0
	in.mtime = now
}

// block returns the block at index i, allocating a zero-filled one if
// write is true and the block is missing.
func (in *Inode) block(i int, write bool) []byte {
	b, ok := in.blocks[i]
	if !ok {
		if !write {
			return nil
		}
		b = make([]byte, blockSize)
		in.blocks[i] = b
	}
	return b
}

// readAt copies bytes [off, off+len(p)) bounded by in.size into p,
// treating unallocated blocks as zero, and returns the number of bytes
// copied.
func (in *Inode) readAt(p []byte, off int64) int {
	end := off + int64(len(p))
	if end > in.size {
		end = in.size
	}
	if off >= end {
		return 0
	}

	total := 0
	for cur := off; cur < end; {
		idx := int(cur / blockSize)
		within := int(cur % blockSize)
		n := blockSize - within
		if remain := int(end - cur); n > remain {
			n = remain
		}

		b := in.block(idx, false)
		dst := p[cur-off : cur-off+int64(n)]
		if b == nil {
			for i := range dst {
				dst[i] = 0
			}
		} else {
			copy(dst, b[within:within+n])
		}

		cur += int64(n)
		total += n
	}
	return total
}

// writeAt allocates blocks as needed and copies p into the block vector
// starting at off, growing size if the write extends past it.
func (in *Inode) writeAt(p []byte, off int64) int {
	end := off + int64(len(p))
	if end > in.size {
		in.size = end
	}

	total := 0
	for cur := off; cur < end; {
		idx := int(cur / blockSize)
		within := int(cur % blockSize)
		n := blockSize - within
		if remain := int(end - cur); n > remain {
			n = remain
		}

		b := in.block(idx, true)
		copy(b[within:within+n], p[cur-off:cur-off+int64(n)])

		cur += int64(n)
		total += n
	}
	return total
}

// truncate sets size and drops blocks beyond the new last block index.
// Shrinking zeroes the bytes of the new last block past the new tail, so
// a later grow (by truncate or by a write past size) reads zeros there.
// Growing never allocates; reads of the grown region see either those
// zeroed bytes or the zero-fill path in readAt.
func (in *Inode) truncate(newSize int64) {
	if newSize < in.size {
		if b, ok := in.blocks[int(newSize/blockSize)]; ok {
			clear(b[newSize%blockSize:])
		}
	}
	in.size = newSize

	keep := 0
	if newSize > 0 {
		keep = int((newSize + blockSize - 1) / blockSize)
	}
	for idx := range in.blocks {
		if idx >= keep {
			delete(in.blocks, idx)
		}
	}
}

// statBlocks512 is stat's block count in 512-byte units.
func (in *Inode) statBlocks512() int64 {
	return (in.size + 511) / 512
}
