package out

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"strings"
	"time"

	timerdto "dpwrk/internal/modules/timer/dto"
	timerin "dpwrk/internal/modules/timer/port/in"
	timerout "dpwrk/internal/modules/timer/port/out"
	apperrors "dpwrk/internal/platform/errors"
)

const rpcService = "Timer"

type JSONRPCServer struct{}

type JSONRPCClient struct{}

func NewJSONRPCServer() timerout.IPCServer {
	return &JSONRPCServer{}
}

func NewJSONRPCClient() timerout.IPCClient {
	return &JSONRPCClient{}
}

// Empty is the argument and reply for calls that carry no payload.
type Empty struct{}

type rpcHandler struct {
	h timerin.Usecase
}

func (s *rpcHandler) Start(req timerdto.StartInput, resp *timerdto.StateOutput) error {
	out, err := s.h.Start(context.Background(), req)
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Pause(_ Empty, resp *timerdto.StateOutput) error {
	out, err := s.h.Pause(context.Background())
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Resume(_ Empty, resp *timerdto.StateOutput) error {
	out, err := s.h.Resume(context.Background())
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Stop(_ Empty, resp *timerdto.StateOutput) error {
	out, err := s.h.Stop(context.Background())
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

func (s *rpcHandler) Status(_ Empty, resp *timerdto.StateOutput) error {
	out, err := s.h.Status(context.Background())
	if err != nil {
		return err
	}
	*resp = out
	return nil
}

// Serve refuses to start when another daemon already answers on socketPath.
func (s *JSONRPCServer) Serve(ctx context.Context, socketPath string, handler timerin.Usecase) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create ipc dir: %w", err)
	}
	if socketAlive(ctx, socketPath) {
		return apperrors.ErrDaemonRunning
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale ipc socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen ipc socket: %w", err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("chmod ipc socket: %w", err)
	}
	defer ln.Close()

	rpcSrv := rpc.NewServer()
	if err := rpcSrv.RegisterName(rpcService, &rpcHandler{h: handler}); err != nil {
		return fmt.Errorf("register ipc handler: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()
	defer close(stop)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				_ = os.Remove(socketPath)
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return err
		}
		go rpcSrv.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

func (c *JSONRPCClient) Start(ctx context.Context, socketPath string, input timerdto.StartInput) (timerdto.StateOutput, error) {
	return call(ctx, socketPath, "Start", input)
}

func (c *JSONRPCClient) Pause(ctx context.Context, socketPath string) (timerdto.StateOutput, error) {
	return call(ctx, socketPath, "Pause", Empty{})
}

func (c *JSONRPCClient) Resume(ctx context.Context, socketPath string) (timerdto.StateOutput, error) {
	return call(ctx, socketPath, "Resume", Empty{})
}

func (c *JSONRPCClient) Stop(ctx context.Context, socketPath string) (timerdto.StateOutput, error) {
	return call(ctx, socketPath, "Stop", Empty{})
}

func (c *JSONRPCClient) Status(ctx context.Context, socketPath string) (timerdto.StateOutput, error) {
	return call(ctx, socketPath, "Status", Empty{})
}

func call(ctx context.Context, socketPath, method string, args any) (timerdto.StateOutput, error) {
	client, err := dialClient(ctx, socketPath)
	if err != nil {
		return timerdto.StateOutput{}, err
	}
	defer client.Close()
	resp := timerdto.StateOutput{}
	if err := client.Call(rpcService+"."+method, args, &resp); err != nil {
		return timerdto.StateOutput{}, remoteError(err)
	}
	return resp, nil
}

func dialClient(ctx context.Context, socketPath string) (*rpc.Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
	client := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return client, nil
}

func socketAlive(ctx context.Context, socketPath string) bool {
	dialCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	d := net.Dialer{}
	conn, err := d.DialContext(dialCtx, "unix", socketPath)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

var remoteSentinels = []error{
	apperrors.ErrInvalidDuration,
	apperrors.ErrNotRunning,
	apperrors.ErrNotPaused,
}

type rpcError struct {
	message  string
	sentinel error
}

func (e rpcError) Error() string { return e.message }

func (e rpcError) Unwrap() error { return e.sentinel }

// remoteError restores the sentinel behind a server-side error so callers can
// keep using errors.Is across the socket.
func remoteError(err error) error {
	var serverErr rpc.ServerError
	if !errors.As(err, &serverErr) {
		return err
	}
	message := string(serverErr)
	for _, sentinel := range remoteSentinels {
		if strings.Contains(message, sentinel.Error()) {
			return rpcError{message: message, sentinel: sentinel}
		}
	}
	return err
}
