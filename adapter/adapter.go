// Package adapter implements the operation adapter: it translates the
// FUSE upcall surface into corefs.FileSystem calls and converts raised
// errors into the negative errno integers a FUSE bridge expects.
//
// This models the "asynchronous-style callback (err, result)" contract the
// source used (samples/memfs/fs.go returns (*Response, error) per op in
// the teacher); here it is rendered as a synchronous (result, errno) pair,
// since the kernel-upcall channel itself — the only place genuine
// asynchrony would come from — is out of scope.
package adapter

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-memfs/memfs/corefs"
	"github.com/go-memfs/memfs/internal/errno"
	"github.com/go-memfs/memfs/internal/platform"
)

// Dispatch wraps a corefs.FileSystem and exposes one method per FUSE
// operation it serves. Every method returns errnoCode == 0 on success.
type Dispatch struct {
	fs  *corefs.FileSystem
	log *logrus.Entry
}

// New wraps fs for dispatch, logging through log (or a default logger if
// log is nil).
func New(fs *corefs.FileSystem, log *logrus.Logger) *Dispatch {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatch{fs: fs, log: log.WithField("component", "adapter")}
}

func (d *Dispatch) trace(op, path string) {
	d.log.WithFields(logrus.Fields{"op": op, "path": path}).Trace("dispatch")
}

func (d *Dispatch) warn(op, path string, err error) {
	if err != nil {
		d.log.WithFields(logrus.Fields{"op": op, "path": path, "err": err}).Warn("op failed")
	}
}

// Statfs returns the static placeholder block-accounting struct.
func (d *Dispatch) Statfs() (corefs.StatfsResult, int) {
	d.trace("statfs", "")
	return d.fs.Statfs(), 0
}

// Getattr serves getattr(path).
func (d *Dispatch) Getattr(path string) (corefs.Attr, int) {
	d.trace("getattr", path)
	a, err := d.fs.Stat(path)
	d.warn("getattr", path, err)
	return a, errno.ToErrno(err)
}

// Fgetattr serves fgetattr(path, fd).
func (d *Dispatch) Fgetattr(fd uint64) (corefs.Attr, int) {
	d.trace("fgetattr", "")
	a, err := d.fs.Fstat(fd)
	d.warn("fgetattr", "", err)
	return a, errno.ToErrno(err)
}

// Readdir serves readdir(path).
func (d *Dispatch) Readdir(path string) ([]string, int) {
	d.trace("readdir", path)
	names, err := d.fs.Readdir(path)
	d.warn("readdir", path, err)
	return names, errno.ToErrno(err)
}

// Getxattr serves getxattr(path, name).
func (d *Dispatch) Getxattr(path, name string) ([]byte, int) {
	d.trace("getxattr", path)
	v, err := d.fs.Getxattr(path, name)
	d.warn("getxattr", path, err)
	return v, errno.ToErrno(err)
}

// Setxattr serves setxattr(path, name, value).
func (d *Dispatch) Setxattr(path, name string, value []byte) int {
	d.trace("setxattr", path)
	err := d.fs.Setxattr(path, name, value)
	d.warn("setxattr", path, err)
	return errno.ToErrno(err)
}

// Listxattr serves listxattr(path).
func (d *Dispatch) Listxattr(path string) ([]string, int) {
	d.trace("listxattr", path)
	names, err := d.fs.Listxattr(path)
	d.warn("listxattr", path, err)
	return names, errno.ToErrno(err)
}

// Removexattr serves removexattr(path, name).
func (d *Dispatch) Removexattr(path, name string) int {
	d.trace("removexattr", path)
	err := d.fs.Removexattr(path, name)
	d.warn("removexattr", path, err)
	return errno.ToErrno(err)
}

// Truncate serves truncate(path, size).
func (d *Dispatch) Truncate(path string, size int64) int {
	d.trace("truncate", path)
	err := d.fs.Truncate(path, size)
	d.warn("truncate", path, err)
	return errno.ToErrno(err)
}

// Ftruncate serves ftruncate(path, fd, size).
func (d *Dispatch) Ftruncate(fd uint64, size int64) int {
	d.trace("ftruncate", "")
	err := d.fs.Ftruncate(fd, size)
	d.warn("ftruncate", "", err)
	return errno.ToErrno(err)
}

// Create serves create(path, mode) as open(path, O_RDWR|O_CREAT).
func (d *Dispatch) Create(path string, mode uint32) (uint64, int) {
	d.trace("create", path)
	c := platform.Default
	fd, err := d.fs.Open(path, c.O_RDWR|c.O_CREAT, mode)
	d.warn("create", path, err)
	return fd, errno.ToErrno(err)
}

// Open serves open(path, flags).
func (d *Dispatch) Open(path string, flags uint32, mode uint32) (uint64, int) {
	d.trace("open", path)
	fd, err := d.fs.Open(path, flags, mode)
	d.warn("open", path, err)
	return fd, errno.ToErrno(err)
}

// Release serves release(path, fd).
func (d *Dispatch) Release(fd uint64) int {
	d.trace("release", "")
	err := d.fs.Close(fd)
	d.warn("release", "", err)
	return errno.ToErrno(err)
}

// Read serves read(path, fd, buf, len, pos): returns bytes read as the
// positive callback value.
func (d *Dispatch) Read(fd uint64, buf []byte, pos *int64) (int, int) {
	d.trace("read", "")
	n, err := d.fs.Read(fd, buf, pos)
	d.warn("read", "", err)
	return n, errno.ToErrno(err)
}

// Write serves write(path, fd, buf, len, pos): returns bytes written.
func (d *Dispatch) Write(fd uint64, buf []byte, pos *int64) (int, int) {
	d.trace("write", "")
	n, err := d.fs.Write(fd, buf, pos)
	d.warn("write", "", err)
	return n, errno.ToErrno(err)
}

// Link serves link(from, to).
func (d *Dispatch) Link(from, to string) int {
	d.trace("link", from)
	err := d.fs.Link(from, to)
	d.warn("link", from, err)
	return errno.ToErrno(err)
}

// Rename serves rename(from, to).
func (d *Dispatch) Rename(from, to string) int {
	d.trace("rename", from)
	err := d.fs.Rename(from, to)
	d.warn("rename", from, err)
	return errno.ToErrno(err)
}

// Unlink serves unlink(path).
func (d *Dispatch) Unlink(path string) int {
	d.trace("unlink", path)
	err := d.fs.Unlink(path)
	d.warn("unlink", path, err)
	return errno.ToErrno(err)
}

// Rmdir serves rmdir(path).
func (d *Dispatch) Rmdir(path string) int {
	d.trace("rmdir", path)
	err := d.fs.Rmdir(path)
	d.warn("rmdir", path, err)
	return errno.ToErrno(err)
}

// Mkdir serves mkdir(path).
func (d *Dispatch) Mkdir(path string) int {
	d.trace("mkdir", path)
	err := d.fs.Mkdir(path)
	d.warn("mkdir", path, err)
	return errno.ToErrno(err)
}

// Chmod serves chmod(path, mode).
func (d *Dispatch) Chmod(path string, mode uint32) int {
	d.trace("chmod", path)
	err := d.fs.Chmod(path, mode)
	d.warn("chmod", path, err)
	return errno.ToErrno(err)
}

// Chown serves chown(path, uid, gid).
func (d *Dispatch) Chown(path string, uid, gid uint32) int {
	d.trace("chown", path)
	err := d.fs.Chown(path, uid, gid)
	d.warn("chown", path, err)
	return errno.ToErrno(err)
}

// Utimes serves utimes(path, atime, mtime).
func (d *Dispatch) Utimes(path string, atime, mtime time.Time) int {
	d.trace("utimes", path)
	err := d.fs.Utimes(path, atime, mtime)
	d.warn("utimes", path, err)
	return errno.ToErrno(err)
}

// Readlink and Symlink are not implemented — symbolic links are out of
// scope — mirroring the teacher's not_implemented_file_system.go's
// ENOSYS-default pattern for operations a given file system doesn't
// support.
func (d *Dispatch) Readlink(path string) (string, int) {
	d.trace("readlink", path)
	return "", errno.ToErrno(errno.New(errno.ENOSYS, "readlink", path, "symbolic links are not supported"))
}

func (d *Dispatch) Symlink(target, path string) int {
	d.trace("symlink", path)
	return errno.ToErrno(errno.New(errno.ENOSYS, "symlink", path, "symbolic links are not supported"))
}
