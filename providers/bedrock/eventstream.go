package bedrock

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// AWS event stream framing: an 8-byte prelude (total length, headers
// length), an IEEE CRC32 of the prelude, the headers, the payload, and an
// IEEE CRC32 of everything before it. Header values Bedrock sends are all
// strings.

// eventStreamMessage is one decoded frame.
type eventStreamMessage struct {
	Headers map[string]string
	Payload []byte
}

type eventStreamReader struct {
	r io.Reader
}

func newEventStreamReader(r io.Reader) *eventStreamReader {
	return &eventStreamReader{r: r}
}

// Next reads one frame. It returns io.EOF at the end of the stream and an
// error on framing or checksum violations.
func (es *eventStreamReader) Next() (*eventStreamMessage, error) {
	prelude := make([]byte, 8)
	if _, err := io.ReadFull(es.r, prelude); err != nil {
		return nil, err
	}

	totalLength := binary.BigEndian.Uint32(prelude[0:4])
	headersLength := binary.BigEndian.Uint32(prelude[4:8])

	// Minimum frame: prelude + prelude CRC + message CRC.
	if totalLength < 16 || headersLength > totalLength-16 {
		return nil, fmt.Errorf("event stream frame length out of range: total %d, headers %d", totalLength, headersLength)
	}

	preludeCRC := make([]byte, 4)
	if _, err := io.ReadFull(es.r, preludeCRC); err != nil {
		return nil, err
	}
	if want := crc32.ChecksumIEEE(prelude); want != binary.BigEndian.Uint32(preludeCRC) {
		return nil, fmt.Errorf("event stream prelude CRC mismatch")
	}

	headerBytes := make([]byte, headersLength)
	if headersLength > 0 {
		if _, err := io.ReadFull(es.r, headerBytes); err != nil {
			return nil, err
		}
	}

	payloadLength := totalLength - 16 - headersLength
	payload := make([]byte, payloadLength)
	if payloadLength > 0 {
		if _, err := io.ReadFull(es.r, payload); err != nil {
			return nil, err
		}
	}

	messageCRC := make([]byte, 4)
	if _, err := io.ReadFull(es.r, messageCRC); err != nil {
		return nil, err
	}

	checked := make([]byte, 0, totalLength-4)
	checked = append(checked, prelude...)
	checked = append(checked, preludeCRC...)
	checked = append(checked, headerBytes...)
	checked = append(checked, payload...)
	if want := crc32.ChecksumIEEE(checked); want != binary.BigEndian.Uint32(messageCRC) {
		return nil, fmt.Errorf("event stream message CRC mismatch")
	}

	return &eventStreamMessage{
		Headers: parseEventStreamHeaders(headerBytes),
		Payload: payload,
	}, nil
}

// parseEventStreamHeaders decodes the header block. Each header is a 1-byte
// name length, the name, a 1-byte value type and a type-specific value.
// Only boolean and string values are retained; other types are skipped.
func parseEventStreamHeaders(data []byte) map[string]string {
	headers := make(map[string]string)
	offset := 0

	for offset < len(data) {
		nameLen := int(data[offset])
		offset++
		if offset+nameLen > len(data) {
			break
		}
		name := string(data[offset : offset+nameLen])
		offset += nameLen

		if offset >= len(data) {
			break
		}
		valueType := data[offset]
		offset++

		switch valueType {
		case 0: // bool true
			headers[name] = "true"
		case 1: // bool false
			headers[name] = "false"
		case 2: // byte
			offset++
		case 3: // short
			offset += 2
		case 4: // int
			offset += 4
		case 5: // long
			offset += 8
		case 6: // byte array
			if offset+2 > len(data) {
				return headers
			}
			valueLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
			offset += 2 + valueLen
		case 7: // string
			if offset+2 > len(data) {
				return headers
			}
			valueLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
			offset += 2
			if offset+valueLen > len(data) {
				return headers
			}
			headers[name] = string(data[offset : offset+valueLen])
			offset += valueLen
		case 8: // timestamp
			offset += 8
		case 9: // uuid
			offset += 16
		default:
			return headers
		}
		if offset > len(data) {
			return headers
		}
	}

	return headers
}

// encodeEventStreamMessage builds one frame with string-typed headers.
// The inverse of Next; used to fabricate streams in tests.
func encodeEventStreamMessage(headers map[string]string, payload []byte) []byte {
	var headerBuf []byte
	for name, value := range headers {
		headerBuf = append(headerBuf, byte(len(name)))
		headerBuf = append(headerBuf, name...)
		headerBuf = append(headerBuf, 7)
		headerBuf = append(headerBuf, byte(len(value)>>8), byte(len(value)))
		headerBuf = append(headerBuf, value...)
	}

	headersLength := uint32(len(headerBuf))
	totalLength := 16 + headersLength + uint32(len(payload))

	prelude := make([]byte, 8)
	binary.BigEndian.PutUint32(prelude[0:4], totalLength)
	binary.BigEndian.PutUint32(prelude[4:8], headersLength)

	preludeCRC := make([]byte, 4)
	binary.BigEndian.PutUint32(preludeCRC, crc32.ChecksumIEEE(prelude))

	msg := make([]byte, 0, totalLength)
	msg = append(msg, prelude...)
	msg = append(msg, preludeCRC...)
	msg = append(msg, headerBuf...)
	msg = append(msg, payload...)

	messageCRC := make([]byte, 4)
	binary.BigEndian.PutUint32(messageCRC, crc32.ChecksumIEEE(msg))
	return append(msg, messageCRC...)
}
