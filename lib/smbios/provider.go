package smbios

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	gosmbios "github.com/digitalocean/go-smbios/smbios"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TableProvider hands out one raw SMBIOS table. TableSize announces the number
// of bytes FillTable will write; a provider that cannot deliver that many
// returns ErrShortTable.
type TableProvider interface {
	TableSize() (int, error)
	FillTable(buf []byte) error
}

// DefaultProvider is used by the Get functions when they are given a nil buffer.
var DefaultProvider TableProvider = NewStreamProvider(nil)

// Load reads a complete raw table from p.
func Load(p TableProvider) ([]byte, error) {
	size, err := p.TableSize()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get firmware table size")
	}
	if size < tableHeaderLen {
		return nil, &BufferTooShortError{Actual: size, Required: tableHeaderLen}
	}

	buf := make([]byte, size)
	if err := p.FillTable(buf); err != nil {
		return nil, errors.Wrap(err, "failed to read firmware table")
	}

	return buf, nil
}

// Save writes buf to path so it can be replayed later with FileProvider.
func Save(path string, buf []byte) error {
	if _, err := ParseVersion(buf); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf, 0o600), "failed to write table to %s", path)
}

// StreamProvider reads the table the operating system exposes (sysfs,
// /dev/mem or GetSystemFirmwareTable) through go-smbios, and prefixes it with
// the raw table header built from the entry point.
type StreamProvider struct {
	log  logrus.FieldLogger
	open func() (io.ReadCloser, gosmbios.EntryPoint, error)

	mu       sync.Mutex
	snapshot []byte
}

// NewStreamProvider creates a provider backed by go-smbios. log may be nil.
func NewStreamProvider(log logrus.FieldLogger) *StreamProvider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StreamProvider{log: log, open: gosmbios.Stream}
}

// TableSize reads a fresh snapshot of the table and returns its size. The
// snapshot is kept for the following FillTable call.
func (p *StreamProvider) TableSize() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot, err := p.read()
	if err != nil {
		return 0, err
	}
	p.snapshot = snapshot

	return len(snapshot), nil
}

// FillTable copies the snapshot taken by TableSize into buf.
func (p *StreamProvider) FillTable(buf []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.snapshot
	p.snapshot = nil
	if snapshot == nil {
		var err error
		if snapshot, err = p.read(); err != nil {
			return err
		}
	}

	return fill(buf, snapshot)
}

func (p *StreamProvider) read() ([]byte, error) {
	rc, ep, err := p.open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SMBIOS stream")
	}
	defer rc.Close()

	table, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SMBIOS stream")
	}

	major, minor, rev := ep.Version()
	p.log.WithFields(logrus.Fields{
		"version": Revision{Major: uint8(major), Minor: uint8(minor)}.String(),
		"bytes":   len(table),
	}).Debug("read SMBIOS table from firmware")

	return withHeader(uint8(major), uint8(minor), uint8(rev), table), nil
}

// withHeader prepends the eight byte raw table header to table.
func withHeader(major, minor, rev uint8, table []byte) []byte {
	buf := make([]byte, tableHeaderLen+len(table))
	buf[0] = 0 // calling method, not applicable
	buf[1] = major
	buf[2] = minor
	buf[3] = rev
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(table)))
	copy(buf[tableHeaderLen:], table)
	return buf
}

// FileProvider replays a raw table written by Save.
type FileProvider struct {
	Path string
}

func (p FileProvider) TableSize() (int, error) {
	fi, err := os.Stat(p.Path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to stat table file %s", p.Path)
	}
	return int(fi.Size()), nil
}

func (p FileProvider) FillTable(buf []byte) error {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to read table file %s", p.Path)
	}
	return fill(buf, data)
}

// StaticProvider serves an in-memory table.
type StaticProvider []byte

func (p StaticProvider) TableSize() (int, error) {
	return len(p), nil
}

func (p StaticProvider) FillTable(buf []byte) error {
	return fill(buf, p)
}

// fill copies src into buf, which must be exactly as long as src.
func fill(buf, src []byte) error {
	if len(src) < len(buf) {
		return errors.Wrapf(ErrShortTable, "got %d bytes, expected %d", len(src), len(buf))
	}
	if len(src) > len(buf) {
		return &BufferTooShortError{Actual: len(buf), Required: len(src)}
	}
	copy(buf, src)
	return nil
}
