package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"ecosysx/internal/sidecar"
)

// engineProc is one spawned sidecar session. The child's stderr passes
// through so engine diagnostics stay visible; its stdout is exclusively the
// protocol stream.
type engineProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	Client *sidecar.Client
}

func spawnEngine(path string) (*engineProc, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}
	return &engineProc{
		cmd:    cmd,
		stdin:  stdin,
		Client: sidecar.NewClient(stdin, stdout),
	}, nil
}

// Close ends the session (best effort stop, then EOF) and reaps the child.
func (p *engineProc) Close() error {
	_ = p.Client.Stop()
	_ = p.stdin.Close()
	return p.cmd.Wait()
}
