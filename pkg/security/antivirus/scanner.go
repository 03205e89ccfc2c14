package antivirus

import "context"

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string // Name of scanner that produced this result
	Error       error  // Any error that occurred during scanning
}

// Scanner is the interface for pluggable antivirus implementations.
// Uploads flagged as infected are rejected; nothing is quarantined.
type Scanner interface {
	// Scan checks file content for malware. A non-nil Error always comes
	// with Infected=true (fail closed).
	Scan(ctx context.Context, filename string, data []byte) ScanResult

	// Name returns the scanner implementation name (for logging)
	Name() string
}

// NoOpScanner reports every file clean; used when no scanner is configured
type NoOpScanner struct{}

var _ Scanner = (*NoOpScanner)(nil)

func (n *NoOpScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	return ScanResult{ScannerName: n.Name()}
}

func (n *NoOpScanner) Name() string {
	return "noop"
}

// New returns a ClamAV scanner when address is set, otherwise a no-op scanner
func New(address string) Scanner {
	if address == "" {
		return &NoOpScanner{}
	}
	return NewClamAVScanner(address, 0)
}
