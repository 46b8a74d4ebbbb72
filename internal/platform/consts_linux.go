package platform

import "syscall"

// Default is the constants table for Linux hosts.
var Default = Constants{
	IFDIR: syscall.S_IFDIR,
	IFREG: syscall.S_IFREG,

	O_RDONLY:  syscall.O_RDONLY,
	O_WRONLY:  syscall.O_WRONLY,
	O_RDWR:    syscall.O_RDWR,
	O_ACCMODE: syscall.O_ACCMODE,

	O_APPEND: syscall.O_APPEND,
	O_CREAT:  syscall.O_CREAT,
	O_EXCL:   syscall.O_EXCL,
}
