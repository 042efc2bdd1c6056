// Package transport implements the fixed-layout binary TCP command
// protocol: a single client connects, sends one request per command,
// and receives a receipt acknowledgement followed by a completion
// response.
package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Request is the wire layout of one incoming command:
// { i32 cmd; i32 axis; i32 reserved[2]; f64 param[5] }, host byte
// order, natural alignment.
type Request struct {
	Cmd      int32
	Axis     int32
	Reserved [2]int32
	Param    [5]float64
}

const requestSize = 4 + 4 + 4*2 + 8*5

// Status mirrors the wire status codes of a Response.
type Status int32

const (
	StatusPending   Status = 0
	StatusExecuting Status = 1
	StatusCompleted Status = 2
	StatusError     Status = 3
)

// Response is the wire layout sent back to the client, once as a
// receipt acknowledgement and again on completion:
// { i32 cmd; i32 axis; i32 seq; i32 status; i32 errorCode; char message[128] }.
type Response struct {
	Cmd       int32
	Axis      int32
	Seq       int32
	Status    Status
	ErrorCode int32
	Message   [128]byte
}

const responseSize = 4*5 + 128

// DecodeRequest parses a fixed-layout request from buf, which must be
// exactly requestSize bytes.
func DecodeRequest(buf []byte) (Request, error) {
	if len(buf) != requestSize {
		return Request{}, fmt.Errorf("transport: request is %d bytes, want %d", len(buf), requestSize)
	}
	var r Request
	reader := bytes.NewReader(buf)
	if err := binary.Read(reader, binary.LittleEndian, &r); err != nil {
		return Request{}, fmt.Errorf("transport: decode request: %w", err)
	}
	return r, nil
}

// NewResponse builds a Response, truncating message to fit the fixed
// 128-byte wire field.
func NewResponse(cmd, axis, seq int32, status Status, errorCode int32, message string) Response {
	var resp Response
	resp.Cmd = cmd
	resp.Axis = axis
	resp.Seq = seq
	resp.Status = status
	resp.ErrorCode = errorCode
	n := copy(resp.Message[:], message)
	_ = n
	return resp
}

// Encode serializes the response to its fixed wire layout.
func (r Response) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(responseSize)
	if err := binary.Write(buf, binary.LittleEndian, r); err != nil {
		return nil, fmt.Errorf("transport: encode response: %w", err)
	}
	return buf.Bytes(), nil
}
