package user

import domain "usercodec/internal/domain/user"

// EncodeRequest represents the request payload for encoding a user.
type EncodeRequest struct {
	User domain.User
}

// EncodeResponse carries the wire representation of a user.
type EncodeResponse struct {
	Payload []byte
}

// DecodeRequest represents the request payload for decoding one wire object.
// Strict rejects unknown fields; the configured policy may force it on.
type DecodeRequest struct {
	Payload []byte
	Strict  bool
}

// DecodeResponse carries the decoded user.
type DecodeResponse struct {
	User domain.User
}

// DecodeBatchRequest represents a batch of wire objects decoded independently.
type DecodeBatchRequest struct {
	Payloads [][]byte `validate:"required,min=1"`
	Strict   bool
}

// DecodeResult is the outcome for one batch item. Exactly one of User and Err is set.
type DecodeResult struct {
	Index int
	User  *domain.User
	Err   error
}

// DecodeBatchResponse holds one result per payload, in request order.
type DecodeBatchResponse struct {
	Results []DecodeResult
	Failed  int
}
