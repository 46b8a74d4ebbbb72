// Command memfsmount is a trivial bridge binary: it constructs the
// in-memory filesystem core, prints that it has "mounted" at the given
// path, and on SIGINT/SIGTERM prints that it is unmounting and exits.
//
// It deliberately does not invoke a real kernel FUSE mount — that half of
// the bridge (mounting, unmounting, kernel upcalls, signal handling as a
// VFS integration) is out of scope.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-memfs/memfs/corefs"
	"github.com/jacobsa/timeutil"
)

func main() {
	var mountPoint string
	var logLevel string

	root := &cobra.Command{
		Use:   "memfsmount",
		Short: "Mount an in-memory POSIX-style filesystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(mountPoint, logLevel)
		},
	}

	root.Flags().StringVar(&mountPoint, "mount", "./mnt", "mount point")
	root.Flags().StringVar(&logLevel, "log-level", "info", "logrus level")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(mountPoint, logLevel string) error {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(lvl)
	}

	// Constructing the core is enough to stand in for a mount: the
	// kernel-facing half of the bridge is out of scope.
	_ = corefs.New(uint32(os.Getuid()), uint32(os.Getgid()), timeutil.RealClock())

	log.Infof("mounted %s", mountPoint)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	log.Infof("unmounting %s", mountPoint)
	return nil
}
