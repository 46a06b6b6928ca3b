// Package proto defines the message kinds exchanged over kernel endpoints and
// their payload encodings.
package proto

import "encoding/binary"

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgPeersChanged
	MsgPlacementChanged
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgPeersChanged:
		return "peers_changed"
	case MsgPlacementChanged:
		return "placement_changed"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes a MsgLogLine payload.
//
// Convention:
// - Payload is UTF-8 bytes without a trailing newline.
// - Delivery is best-effort; callers may drop on overflow.
func LogLinePayload(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// PeersChangedPayload encodes a MsgPeersChanged payload.
//
// Layout (little-endian):
//   - u16: peer count observed by the registry when it fired
func PeersChangedPayload(count int) []byte {
	if count < 0 {
		count = 0
	}
	if count > 0xFFFF {
		count = 0xFFFF
	}
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(count))
	return buf
}

// DecodePeersChangedPayload decodes a PeersChangedPayload.
func DecodePeersChangedPayload(b []byte) (count int, ok bool) {
	if len(b) != 2 {
		return 0, false
	}
	return int(binary.LittleEndian.Uint16(b)), true
}

// PlacementChangedPayload encodes a MsgPlacementChanged payload.
//
// Payload format:
//
//	b[0] == 0 => snap immediately
//	b[0] != 0 => ease toward the new placement
func PlacementChangedPayload(easing bool) []byte {
	if easing {
		return []byte{1}
	}
	return []byte{0}
}

func DecodePlacementChangedPayload(b []byte) (easing bool, ok bool) {
	if len(b) != 1 {
		return false, false
	}
	return b[0] != 0, true
}
