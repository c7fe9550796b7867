package http

import (
	"encoding/json"
	"strings"

	perr "resolveit/internal/platform/errors"
	"resolveit/internal/services/api/realtime/domain"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
)

// codec turns frames into websocket messages of one kind
type codec struct {
	name    string
	msgType int
	marshal func(any) ([]byte, error)
}

var cborMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

var (
	jsonCodec = codec{name: "json", msgType: websocket.TextMessage, marshal: json.Marshal}
	cborCodec = codec{name: "cbor", msgType: websocket.BinaryMessage, marshal: cborMode.Marshal}
)

// codecFor picks the frame encoding from the ?encoding= query value
func codecFor(enc string) (codec, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "json":
		return jsonCodec, nil
	case "cbor":
		return cborCodec, nil
	}
	return codec{}, perr.WithField(perr.InvalidArgf("encoding must be json or cbor"), "encoding")
}

func (c codec) encode(f domain.Frame) ([]byte, error) { return c.marshal(f) }

// decodeMessage reads a client message in whichever encoding the client chose
func decodeMessage(msgType int, b []byte) (domain.ClientMessage, error) {
	var m domain.ClientMessage
	var err error
	if msgType == websocket.BinaryMessage {
		err = cbor.Unmarshal(b, &m)
	} else {
		err = json.Unmarshal(b, &m)
	}
	return m, err
}
