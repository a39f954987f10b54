package proc

import (
	"log/slog"
	"os"
	"os/exec"
	"syscall"
)

// Supervisor spawns the external commands behind dockapp and launcher tiles
// and terminates tracked children on shutdown. Children are not reaped: the
// panel never waits on them, matching the observable process accounting of
// the hosted dockapps.
type Supervisor struct {
	logger *slog.Logger

	// kill is syscall.Kill, injectable for tests.
	kill func(pid int, sig syscall.Signal) error
}

// NewSupervisor creates a process supervisor.
func NewSupervisor(logger *slog.Logger) *Supervisor {
	return &Supervisor{
		logger: logger,
		kill:   syscall.Kill,
	}
}

// Spawn starts a command through the shell and returns its pid. The pid is
// valid even if the exec inside the shell later fails; the caller records it
// unconditionally.
func (s *Supervisor) Spawn(command string) (int, error) {
	cmd := dockappCommand(command)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}

// Launch starts a launcher command fire-and-forget. The pid is intentionally
// not tracked: launched applications outlive the panel.
func (s *Supervisor) Launch(command string) {
	cmd := shellCommand(command)
	if err := cmd.Start(); err != nil {
		s.logger.Warn("failed to execute command", "command", command, "error", err)
		return
	}
	s.logger.Debug("executed launcher command", "command", command, "pid", cmd.Process.Pid)
}

// TerminateAll sends SIGTERM to every tracked child. It does not wait for
// exit confirmation.
func (s *Supervisor) TerminateAll(pids []int) {
	s.logger.Debug("terminating dockapps")
	for _, pid := range pids {
		if pid <= 0 {
			continue
		}
		if err := s.kill(pid, syscall.SIGTERM); err != nil {
			s.logger.Debug("failed to signal child", "pid", pid, "error", err)
		}
	}
}

// shellCommand wraps a configured command string in a shell invocation so it
// may contain shell syntax.
func shellCommand(command string) *exec.Cmd {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// dockappCommand builds the shell command for a dockapp child. Dockapps must
// not outlive the panel: the kernel delivers SIGTERM to the child if the
// panel dies without reaching its shutdown path, such as on a lost X11
// connection. Launcher children get no such signal and survive the panel.
func dockappCommand(command string) *exec.Cmd {
	cmd := shellCommand(command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}
	return cmd
}
