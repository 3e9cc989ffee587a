//go:build unix

package terminal_test

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/lixenwraith/readline/terminal"
	"github.com/lixenwraith/readline/terminal/termtest"
)

const guardChildEnv = "TERMINAL_GUARD_CHILD"

// TestGuardSignalReachesHostHandler verifies a host with its own SIGTERM handler
// survives the guard: the terminal is restored and the host finishes shutdown
func TestGuardSignalReachesHostHandler(t *testing.T) {
	if os.Getenv(guardChildEnv) == "1" {
		guardChild()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestGuardSignalReachesHostHandler$", "-test.v")
	cmd.Env = append(os.Environ(), guardChildEnv+"=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "terminal restored: true")
	assert.Contains(t, string(out), "host shutdown finished")
}

func guardChild() {
	host := make(chan os.Signal, 2)
	signal.Notify(host, syscall.SIGTERM)

	g := terminal.NewGuard(nil)
	g.Install()

	be := termtest.NewBackend(80)
	if err := be.EnterRawMode(); err != nil {
		fmt.Println("enter raw:", err)
		os.Exit(2)
	}
	g.Track(be)

	if err := unix.Kill(unix.Getpid(), syscall.SIGTERM); err != nil {
		fmt.Println("kill:", err)
		os.Exit(2)
	}

	select {
	case <-host:
	case <-time.After(2 * time.Second):
		fmt.Println("host handler never ran")
		os.Exit(2)
	}

	// The guard restores before re-delivering; the second copy confirms it ran
	select {
	case <-host:
	case <-time.After(2 * time.Second):
		fmt.Println("guard did not re-deliver")
		os.Exit(2)
	}
	fmt.Println("terminal restored:", !be.IsRawMode())
	fmt.Println("host shutdown finished")
}
