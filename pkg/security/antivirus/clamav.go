package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ClamAVScanner connects to a clamd daemon for malware scanning
type ClamAVScanner struct {
	address string        // TCP address (host:port) or Unix socket path
	timeout time.Duration // Connection and scan timeout
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner.
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{
		address: address,
		timeout: timeout,
	}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping checks that clamd answers PONG
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return err
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	if !strings.HasPrefix(string(buf[:n]), "PONG") {
		return fmt.Errorf("unexpected clamd reply %q", buf[:n])
	}
	return nil
}

// Scan streams the file with the INSTREAM command
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(err error) ScanResult {
		result.Infected = true
		result.Error = err
		return result
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail(fmt.Errorf("failed to connect to clamd: %w", err))
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail(fmt.Errorf("failed to send command: %w", err))
	}

	// One chunk: 4 byte big-endian length, payload, then a zero-length terminator
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))
	if _, err := conn.Write(size); err != nil {
		return fail(fmt.Errorf("failed to send size: %w", err))
	}
	if _, err := conn.Write(data); err != nil {
		return fail(fmt.Errorf("failed to send file data: %w", err))
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail(fmt.Errorf("failed to send end marker: %w", err))
	}

	response := make([]byte, 1024)
	n, err := conn.Read(response)
	if err != nil && err != io.EOF {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	return parseReply(result, string(response[:n]))
}

// parseReply interprets "stream: OK", "stream: <threat> FOUND" or "stream: <msg> ERROR"
func parseReply(result ScanResult, reply string) ScanResult {
	reply = strings.TrimRight(strings.TrimSpace(reply), "\x00")

	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(reply, ":"); ok {
			result.ThreatName = strings.TrimSuffix(strings.TrimSpace(threat), " FOUND")
		}
	case strings.HasSuffix(reply, "ERROR"):
		result.Infected = true
		result.Error = fmt.Errorf("scan error: %s", reply)
	case strings.HasSuffix(reply, "OK"):
	default:
		result.Infected = true
		result.Error = fmt.Errorf("unexpected clamd reply: %q", reply)
	}
	return result
}
