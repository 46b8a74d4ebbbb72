package adapter_test

import (
	"testing"

	"github.com/jacobsa/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-memfs/memfs/adapter"
	"github.com/go-memfs/memfs/corefs"
	"github.com/go-memfs/memfs/internal/platform"
)

func newDispatch(t *testing.T) *adapter.Dispatch {
	t.Helper()
	fs := corefs.New(1000, 1000, timeutil.RealClock())
	return adapter.New(fs, nil)
}

func TestCreateOpenWriteRead(t *testing.T) {
	d := newDispatch(t)

	fd, errc := d.Create("/f", 0o644)
	require.Zero(t, errc)

	zero := int64(0)
	n, errc := d.Write(fd, []byte("hello"), &zero)
	require.Zero(t, errc)
	assert.Equal(t, 5, n)

	buf := make([]byte, 5)
	n, errc = d.Read(fd, buf, &zero)
	require.Zero(t, errc)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))

	errc = d.Release(fd)
	require.Zero(t, errc)
}

func TestGetattrMissingReturnsNegativeErrno(t *testing.T) {
	d := newDispatch(t)

	_, errc := d.Getattr("/missing")
	assert.Less(t, errc, 0)
}

func TestMkdirReaddirThroughDispatch(t *testing.T) {
	d := newDispatch(t)

	require.Zero(t, d.Mkdir("/a"))
	require.Zero(t, d.Mkdir("/a/b"))

	names, errc := d.Readdir("/a")
	require.Zero(t, errc)
	assert.Equal(t, []string{"b"}, names)
}

func TestOpenExclViaDispatch(t *testing.T) {
	d := newDispatch(t)
	c := platform.Default

	fd, errc := d.Open("/f", c.O_RDWR|c.O_CREAT, 0)
	require.Zero(t, errc)
	require.Zero(t, d.Release(fd))

	_, errc = d.Open("/f", c.O_RDWR|c.O_CREAT|c.O_EXCL, 0)
	assert.Less(t, errc, 0)
}

func TestSymlinkUnsupported(t *testing.T) {
	d := newDispatch(t)
	errc := d.Symlink("target", "/link")
	assert.Less(t, errc, 0)
}

func TestStatfsPlaceholder(t *testing.T) {
	d := newDispatch(t)
	sf, errc := d.Statfs()
	require.Zero(t, errc)
	assert.EqualValues(t, 1<<20, sf.Bsize)
}
