package renderer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pierrec/lz4/v4"

	"github.com/yuv008/ASTra/pkg/analyzers/analyze"
	"github.com/yuv008/ASTra/pkg/safeconv"
)

const (
	// BinaryMagic marks astra binary envelopes.
	BinaryMagic = "ASTB"

	// binaryHeaderSize is magic bytes plus payload length bytes.
	binaryHeaderSize = 8
)

var (
	// ErrInvalidBinaryEnvelope indicates a malformed or truncated binary payload.
	ErrInvalidBinaryEnvelope = errors.New("invalid binary envelope")

	// ErrBinaryPayloadTooLarge indicates the payload exceeds the envelope limit.
	ErrBinaryPayloadTooLarge = errors.New("binary payload too large")
)

// renderBinary writes the result as a binary envelope: the magic marker and
// the uncompressed payload length, followed by an LZ4 frame holding the
// JSON payload.
func renderBinary(result *analyze.ProjectResult, w io.Writer) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal binary payload: %w", err)
	}

	if len(payload) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrBinaryPayloadTooLarge, len(payload))
	}

	header := make([]byte, binaryHeaderSize)
	copy(header[:4], BinaryMagic)
	binary.LittleEndian.PutUint32(header[4:], safeconv.MustIntToUint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write binary header: %w", err)
	}

	compressor := lz4.NewWriter(w)

	if _, err := compressor.Write(payload); err != nil {
		return fmt.Errorf("write binary payload: %w", err)
	}

	if err := compressor.Close(); err != nil {
		return fmt.Errorf("close binary payload: %w", err)
	}

	return nil
}

// DecodeBinary extracts the JSON payload from a binary envelope.
func DecodeBinary(r io.Reader) ([]byte, error) {
	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Join(ErrInvalidBinaryEnvelope, err)
	}

	if !bytes.Equal(header[:4], []byte(BinaryMagic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidBinaryEnvelope)
	}

	payloadLen := binary.LittleEndian.Uint32(header[4:])

	var payload bytes.Buffer
	if _, err := payload.ReadFrom(lz4.NewReader(r)); err != nil {
		return nil, errors.Join(ErrInvalidBinaryEnvelope, err)
	}

	if int64(payload.Len()) != int64(payloadLen) {
		return nil, fmt.Errorf("%w: payload length mismatch", ErrInvalidBinaryEnvelope)
	}

	return payload.Bytes(), nil
}
