package export

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	pserr "proofscope/internal/errors"
)

// archiveMagic is the first line of a snapshot archive. The second
// line is the hex BLAKE2b-256 digest of the uncompressed report JSON;
// the zstd stream follows.
const archiveMagic = "proofscope-snapshot-v1"

// WriteArchive stores the report as a compressed, checksummed file.
func WriteArchive(path string, r *Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	digest := blake2b.Sum256(raw)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%s\n", archiveMagic, hex.EncodeToString(digest[:]))

	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("init compressor: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return fmt.Errorf("compress report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress report: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ReadArchive loads a snapshot archive, verifying the checksum before
// decoding. Corruption is reported as SNAPSHOT_CORRUPT.
func ReadArchive(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header := data
	nl1 := bytes.IndexByte(header, '\n')
	if nl1 < 0 || string(header[:nl1]) != archiveMagic {
		return nil, pserr.New(pserr.SnapshotCorrupt, "not a snapshot archive: "+path, nil)
	}
	rest := header[nl1+1:]
	nl2 := bytes.IndexByte(rest, '\n')
	if nl2 < 0 {
		return nil, pserr.New(pserr.SnapshotCorrupt, "truncated snapshot archive: "+path, nil)
	}
	wantDigest, err := hex.DecodeString(string(rest[:nl2]))
	if err != nil || len(wantDigest) != blake2b.Size256 {
		return nil, pserr.New(pserr.SnapshotCorrupt, "bad checksum line in "+path, err)
	}

	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("init decompressor: %w", err)
	}
	defer zr.Close()

	raw, err := zr.DecodeAll(rest[nl2+1:], nil)
	if err != nil {
		return nil, pserr.New(pserr.SnapshotCorrupt, "cannot decompress "+path, err)
	}

	digest := blake2b.Sum256(raw)
	if !bytes.Equal(digest[:], wantDigest) {
		return nil, pserr.New(pserr.SnapshotCorrupt, "checksum mismatch in "+path, nil)
	}

	return ReadJSON(bytes.NewReader(raw))
}
