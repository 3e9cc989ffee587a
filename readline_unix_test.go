//go:build unix

package readline_test

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

	"github.com/lixenwraith/readline"
	"github.com/lixenwraith/readline/terminal"
	"github.com/lixenwraith/readline/terminal/termtest"
)

const sessionChildEnv = "READLINE_SESSION_CHILD"

// TestClosedSessionLeavesSignalsToHost verifies a host's SIGTERM handler still
// runs its graceful shutdown after the session is closed
func TestClosedSessionLeavesSignalsToHost(t *testing.T) {
	if os.Getenv(sessionChildEnv) == "1" {
		closedSessionChild()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestClosedSessionLeavesSignalsToHost$", "-test.v")
	cmd.Env = append(os.Environ(), sessionChildEnv+"=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "listening after close: false")
	assert.Contains(t, string(out), "graceful shutdown finished")
}

func closedSessionChild() {
	host := make(chan os.Signal, 1)
	signal.Notify(host, syscall.SIGTERM)

	be := termtest.NewBackend(80)
	s := readline.New(readline.WithBackend(be), readline.WithEscapeTimeout(10*time.Millisecond))

	be.Source().FeedString("hello\r")
	if _, err := s.Readline(); err != nil {
		fmt.Println("readline:", err)
		os.Exit(2)
	}
	fmt.Println("listening while raw:", terminal.ProcessGuard().Listening())
	s.Close()
	fmt.Println("listening after close:", terminal.ProcessGuard().Listening())

	if err := unix.Kill(unix.Getpid(), syscall.SIGTERM); err != nil {
		fmt.Println("kill:", err)
		os.Exit(2)
	}
	select {
	case <-host:
		fmt.Println("host handler got SIGTERM")
	case <-time.After(2 * time.Second):
		fmt.Println("host handler never ran")
		os.Exit(2)
	}
	time.Sleep(50 * time.Millisecond)
	fmt.Println("graceful shutdown finished")
}
