package server

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case EncodingJSON:
		return EncodingJSON, nil
	case EncodingMsgpack:
		return EncodingMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// Codec maps messages to websocket frames. JSON travels as text frames,
// msgpack as binary frames.
type Codec interface {
	Encoding() Encoding
	MessageType() int
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

func NewCodec(enc Encoding) (Codec, error) {
	switch enc {
	case EncodingJSON:
		return jsonCodec{}, nil
	case EncodingMsgpack:
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}

type jsonCodec struct{}

func (jsonCodec) Encoding() Encoding                 { return EncodingJSON }
func (jsonCodec) MessageType() int                   { return websocket.TextMessage }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Encoding() Encoding            { return EncodingMsgpack }
func (msgpackCodec) MessageType() int              { return websocket.BinaryMessage }
func (msgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
