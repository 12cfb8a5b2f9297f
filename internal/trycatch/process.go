package trycatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

// RegionEnv names the region a re-executed child process must run.
const RegionEnv = "PYRT_REGION"

// RunIfChild runs the requested region and exits when the process was started as a
// protected unit. It returns immediately otherwise. Call it first thing in main, and
// in TestMain for test binaries that run regions in process mode.
func RunIfChild() {
	name, ok := os.LookupEnv(RegionEnv)
	if !ok {
		return
	}
	_ = os.Unsetenv(RegionEnv)

	body, err := lookup(name)
	if err != nil {
		exc.Fatal(err)
	}
	var args []value.Value
	if err := json.NewDecoder(os.Stdin).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		exc.Fatal(fmt.Errorf("trycatch: decode arguments: %w", err))
	}
	body(exc.NewContext(), args)
	os.Exit(0)
}

func executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return os.Args[0]
}

// runProcess re-executes the current binary for the region. The child's stderr is
// the write end of a pipe the supervisor reads after giving up its own copy.
func runProcess(name string, args []value.Value) ([]byte, int, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, 0, fmt.Errorf("trycatch: encode arguments: %w", err)
	}

	rd, wr, err := os.Pipe()
	if err != nil {
		return nil, 0, fmt.Errorf("trycatch: create pipe: %w", err)
	}
	defer rd.Close()

	cmd := exec.Command(executable())
	cmd.Env = append(os.Environ(), RegionEnv+"="+name)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = os.Stdout
	cmd.Stderr = wr
	err = cmd.Start()
	wr.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("trycatch: start unit: %w", err)
	}

	captured, readErr := capture(rd)
	err = cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
	default:
		return nil, 0, fmt.Errorf("trycatch: wait for unit: %w", err)
	}
	if readErr != nil {
		return nil, 0, readErr
	}
	return captured, cmd.ProcessState.ExitCode(), nil
}
