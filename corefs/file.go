package corefs

import "time"

// fileRead serves a read against a file entry's inode. REQUIRES: !e.inode.isDir().
func fileRead(e *Entry, off int64, buf []byte, now time.Time) int {
	n := e.inode.readAt(buf, off)
	e.inode.atime = now
	return n
}

// fileWrite serves a write against a file entry's inode. REQUIRES: !e.inode.isDir().
func fileWrite(e *Entry, off int64, buf []byte, now time.Time) int {
	n := e.inode.writeAt(buf, off)
	e.inode.mtime = now
	return n
}

// fileTruncate serves a truncate against a file entry's inode. REQUIRES: !e.inode.isDir().
func fileTruncate(e *Entry, newSize int64, now time.Time) {
	e.inode.truncate(newSize)
	e.inode.mtime = now
}
