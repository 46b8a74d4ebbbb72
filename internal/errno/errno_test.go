package errno_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-memfs/memfs/internal/errno"
)

func TestErrorMessageFormat(t *testing.T) {
	e := errno.New(errno.ENOENT, "stat", "missing", "no such file or directory")
	assert.Equal(t, "ENOENT: no such file or directory, stat 'missing'", e.Error())
}

func TestToErrno(t *testing.T) {
	assert.Equal(t, 0, errno.ToErrno(nil))
	assert.Equal(t, int(errno.EEXIST), errno.ToErrno(errno.New(errno.EEXIST, "mkdir", "a", "already exists")))
	assert.NotZero(t, errno.ToErrno(assertErr{}))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
