// Package token converts file references — a kind plus the ordered list of
// dump-channel message IDs — to and from opaque URL-safe strings. The encoded
// string inside a shareable link is the only persistence of a file reference;
// nothing is stored server-side.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"filegate/internal/common"
)

// Kind says whether a token references one archived message or a media group.
type Kind string

const (
	Single Kind = "single"
	Batch  Kind = "batch"
)

// Payload is the decoded form of a token.
type Payload struct {
	Kind Kind
	IDs  []int
}

// wire is the compact serialized form. Pointer fields let Decode tell a
// missing key from a zero value.
type wire struct {
	T   *Kind  `json:"t"`
	IDs *[]int `json:"ids"`
}

// KindFor derives the token kind from the number of successfully archived
// messages: Batch for more than one, Single otherwise.
func KindFor(archived int) Kind {
	if archived > 1 {
		return Batch
	}
	return Single
}

// Encode serializes a file reference into a URL-safe token. Deterministic,
// no randomness, no expiry. The inverse of Decode.
func Encode(kind Kind, ids []int) (string, error) {
	if kind != Single && kind != Batch {
		return "", fmt.Errorf("unknown kind %q", kind)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no message ids")
	}
	b, err := json.Marshal(wire{T: &kind, IDs: &ids})
	if err != nil {
		return "", err
	}
	// RawURLEncoding keeps the token valid inside a URL path segment and
	// avoids padding ambiguity.
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode reverses Encode. On any malformation — invalid encoding, invalid
// inner structure, missing fields — it returns common.ErrInvalidToken; the
// caller should treat that as an invalid or expired link.
func Decode(s string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Payload{}, common.ErrInvalidToken
	}
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Payload{}, common.ErrInvalidToken
	}
	if w.T == nil || w.IDs == nil {
		return Payload{}, common.ErrInvalidToken
	}
	return Payload{Kind: *w.T, IDs: *w.IDs}, nil
}
