package user

import "context"

// Usecase defines the interface for user record conversion operations.
type Usecase interface {
	Encode(ctx context.Context, in EncodeRequest) (*EncodeResponse, error)
	Decode(ctx context.Context, in DecodeRequest) (*DecodeResponse, error)
	DecodeBatch(ctx context.Context, in DecodeBatchRequest) (*DecodeBatchResponse, error)
}
