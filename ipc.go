// ipc.go - Unix domain socket transport for the haptic command stream

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"net"
	"os"
	"time"
)

const defaultSocketPath = "/tmp/hapticd.sock"

// frameLengthPrefix is the byte width of the length prefix preceding each
// encoded command on the wire.
const frameLengthPrefix = 4

// IPCServer accepts client connections on a Unix-domain stream socket and
// feeds decoded commands into a CommandBridge. Decode errors are logged
// and the connection kept; I/O errors are per-client fatal.
type IPCServer struct {
	listener net.Listener
	bridge   *CommandBridge
	sockPath string
	done     chan struct{}
}

// resolveSocketPath returns the configured or default socket path.
func resolveSocketPath(override string) string {
	if override != "" {
		return override
	}
	return defaultSocketPath
}

// NewIPCServer binds the IPC socket at path, cleaning up a stale socket
// file left behind by a crashed prior instance. If a live peer answers at
// path, another instance is already running and this returns an error.
func NewIPCServer(path string, bridge *CommandBridge) (*IPCServer, error) {
	sockPath := resolveSocketPath(path)

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		conn, dialErr := net.DialTimeout("unix", sockPath, 2*time.Second)
		if dialErr != nil {
			os.Remove(sockPath)
			ln, err = net.Listen("unix", sockPath)
			if err != nil {
				return nil, fmt.Errorf("ipc: bind failed: %w", err)
			}
		} else {
			conn.Close()
			return nil, fmt.Errorf("ipc: another instance is already running at %s", sockPath)
		}
	}

	return &IPCServer{
		listener: ln,
		bridge:   bridge,
		sockPath: sockPath,
		done:     make(chan struct{}),
	}, nil
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, returning when the accept loop exits.
func (s *IPCServer) Serve(ctx context.Context) error {
	defer close(s.done)

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

// Close shuts the listener and removes the socket file.
func (s *IPCServer) Close() {
	s.listener.Close()
	os.Remove(s.sockPath)
}

func (s *IPCServer) handleConn(conn net.Conn) {
	defer conn.Close()

	header := make([]byte, frameLengthPrefix)
	payload := make([]byte, 0, maxFrameSize)

	for {
		if _, err := readFull(conn, header); err != nil {
			return
		}
		length := binary.LittleEndian.Uint32(header)
		if length == 0 || length > maxFrameSize {
			log.Printf("ipc: rejecting frame of %d bytes from %s", length, conn.RemoteAddr())
			return
		}

		if cap(payload) < int(length) {
			payload = make([]byte, length)
		}
		payload = payload[:length]
		if _, err := readFull(conn, payload); err != nil {
			return
		}

		cmd, _, err := DecodeCommand(payload)
		if err != nil {
			log.Printf("ipc: malformed command from %s: %v", conn.RemoteAddr(), err)
			continue
		}

		if !s.bridge.TrySend(cmd.Strip()) {
			log.Printf("ipc: bridge full, dropping command from %s", conn.RemoteAddr())
		}
	}
}

// readFull reads exactly len(buf) bytes, handling the partial reads and
// coalesced writes the reference transport's single-read approach did not.
func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SendCommand dials the server at sockPath and writes one framed command.
// hapticctl does not call it; it carries its own copy of this logic.
func SendCommand(sockPath string, cmd HapticCommand) error {
	conn, err := net.DialTimeout("unix", resolveSocketPath(sockPath), 5*time.Second)
	if err != nil {
		return fmt.Errorf("ipc: cannot connect: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	payload := EncodeCommand(nil, cmd)

	var header [frameLengthPrefix]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))

	if _, err := conn.Write(header[:]); err != nil {
		return fmt.Errorf("ipc: send header failed: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("ipc: send payload failed: %w", err)
	}
	return nil
}
