package tools

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

// SubprocessManager owns the single long-lived evaluator process a run's
// subprocess_exec calls share, and the length-prefixed (32-bit big-endian
// byte count, then JSON) framing protocol on its stdin/stdout. No example in the pack frames messages this way; the format
// comes directly from the design, implemented with stdlib encoding/binary —
// documented in DESIGN.md as a stdlib exception since no pack library
// speaks this exact wire shape.
type SubprocessManager struct {
	mu sync.Mutex
	command []string
	proc *exec.Cmd
	stdin io.WriteCloser
	stdout *bufio.Reader
}

// NewSubprocessManager records the evaluator command; the process itself is
// started lazily on first use.
func NewSubprocessManager(command []string) *SubprocessManager {
	return &SubprocessManager{command: command}
}

type subprocessRequest struct {
	Code string `json:"code"`
}

type subprocessResponse struct {
	Output string `json:"output"`
	Error string `json:"error,omitempty"`
}

// Eval sends code to the running evaluator, starting it first if needed,
// and returns its response's Output (or an error built from its Error
// field). A fresh process is started when reset is true.
func (m *SubprocessManager) Eval(ctx context.Context, code string, reset bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reset {
 m.stopLocked()
	}
	if m.proc == nil {
 if err := m.startLocked(); err != nil {
 return "", err
 }
	}

	payload, err := json.Marshal(subprocessRequest{Code: code})
	if err != nil {
 return "", fmt.Errorf("marshal subprocess request: %w", err)
	}
	if err := writeFrame(m.stdin, payload); err != nil {
 m.stopLocked()
 return "", fmt.Errorf("write subprocess request: %w", err)
	}

	type result struct {
 resp subprocessResponse
 err error
	}
	done := make(chan result, 1)
	go func() {
 frame, err := readFrame(m.stdout)
 if err != nil {
 done <- result{err: err}
 return
 }
 var resp subprocessResponse
 if err := json.Unmarshal(frame, &resp); err != nil {
 done <- result{err: fmt.Errorf("unmarshal subprocess response: %w", err)}
 return
 }
 done <- result{resp: resp}
	}()

	select {
	case <-ctx.Done():
 m.stopLocked()
 return "", ctx.Err()
	case r := <-done:
 if r.err != nil {
 m.stopLocked()
 return "", r.err
 }
 if r.resp.Error != "" {
 return "", fmt.Errorf("%s", r.resp.Error)
 }
 return r.resp.Output, nil
	}
}

func (m *SubprocessManager) startLocked() error {
	if len(m.command) == 0 {
 return fmt.Errorf("no subprocess evaluator command configured")
	}
	cmd := exec.Command(m.command[0], m.command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
 return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
 return err
	}
	if err := cmd.Start(); err != nil {
 return err
	}
	m.proc = cmd
	m.stdin = stdin
	m.stdout = bufio.NewReader(stdout)
	return nil
}

func (m *SubprocessManager) stopLocked() {
	if m.proc == nil {
 return
	}
	_ = m.stdin.Close()
	_ = m.proc.Process.Kill()
	_ = m.proc.Wait()
	m.proc = nil
	m.stdin = nil
	m.stdout = nil
}

// Close terminates the evaluator process, if running.
func (m *SubprocessManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
 return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
 return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
 return nil, err
	}
	return buf, nil
}

type subprocessExecTool struct {
	e *Engine
	m *SubprocessManager
}

func newSubprocessExecTool(e *Engine, m *SubprocessManager) Tool {
	return subprocessExecTool{e: e, m: m}
}

func (subprocessExecTool) Name() string { return "subprocess_exec" }
func (subprocessExecTool) Description() string {
	return "Evaluate code in a long-lived subprocess session, optionally resetting it first."
}
func (subprocessExecTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "code": stringProp("code to evaluate in the subprocess session"),
 "reset": map[string]any{"type": "boolean", "description": "restart the subprocess session before evaluating"},
	}, "code")
}

func (t subprocessExecTool) Execute(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	code := argString(call.Arguments, "code", "")
	reset := argBool(call.Arguments, "reset", false)

	timeout := t.e.SubprocessTimeout
	if timeout <= 0 {
 timeout = DefaultEngineConfig().SubprocessTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, err := t.m.Eval(runCtx, code, reset)
	if err != nil {
 if runCtx.Err() == context.DeadlineExceeded {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeTimeout, fmt.Sprintf("subprocess evaluation exceeded the %s timeout", timeout)))
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeExecFailed, "subprocess evaluation failed", err))
	}
	return okResult(call.ID, output)
}
