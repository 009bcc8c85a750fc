package ws

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Encoder converts server messages to wire frames, compressing with Zstd for
// clients that negotiated the compressed subprotocol. Safe for concurrent use.
type Encoder struct {
	zstdEncoder *zstd.Encoder
}

// NewEncoder creates a new Encoder with Zstd compression.
func NewEncoder() (*Encoder, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Encoder{zstdEncoder: enc}, nil
}

// Encode serializes a message for the given subprotocol.
func (e *Encoder) Encode(msg *ServerMessage, protocol string) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal server message: %w", err)
	}

	if protocol == ProtocolZstd {
		return e.zstdEncoder.EncodeAll(data, nil), nil
	}
	return data, nil
}

// Close releases encoder resources.
func (e *Encoder) Close() {
	_ = e.zstdEncoder.Close()
}
