// Package daemon implements the two-process startup handshake: the parent
// stays in the foreground until the child has adopted every configured
// dockapp, then exits 0. Go cannot fork, so the parent re-executes itself in
// a new session and waits for SIGUSR1 from the child.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

const childEnv = "GODOCK_DAEMON_CHILD"

// InChild reports whether this process is the re-executed daemon child.
func InChild() bool {
	return os.Getenv(childEnv) == "1"
}

// Run re-executes the current binary as a detached child and blocks until the
// child signals completion with SIGUSR1. Returns nil on the completion
// signal. If the child exits first, or the parent is woken by any other
// termination signal, an error is returned.
//
// There is no timeout: a dockapp that never advertises an icon window leaves
// the child short of completion and the parent waiting forever.
func Run() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	devnull, err := os.Open(os.DevNull)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), childEnv+"=1")
	cmd.Stdin = devnull
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	defer signal.Stop(usr1)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon child: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-usr1:
		return nil
	case err := <-done:
		if err != nil {
			return fmt.Errorf("daemon child exited before adopting all dockapps: %w", err)
		}
		return fmt.Errorf("daemon child exited before adopting all dockapps")
	}
}

// NotifyParent signals the waiting parent that every dockapp has been
// adopted. Called at most once, from the child's event loop.
func NotifyParent() error {
	return syscall.Kill(os.Getppid(), syscall.SIGUSR1)
}
