package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "usercodec/internal/domain/user"
	pkgerrors "usercodec/pkg/errors"
	"usercodec/pkg/logger"
)

// Config controls decode policy and batch limits.
type Config struct {
	Strict        bool // Strict forces unknown-field rejection for every request
	BatchWorkers  int  // BatchWorkers bounds concurrent decodes within one batch
	BatchMaxItems int  // BatchMaxItems caps the number of payloads per batch
}

// Service implements Usecase on top of the domain codec.
type Service struct {
	cfg      Config
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service. Non-positive limits fall back to 1 worker and
// no item cap.
func New(cfg Config, log *zap.Logger) *Service {
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}
	return &Service{cfg: cfg, log: log, validate: validator.New()}
}

// Encode renders a user in wire form.
func (s *Service) Encode(ctx context.Context, in EncodeRequest) (*EncodeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload := domain.Encode(in.User)
	logger.WithContext(ctx, s.log).Debug("encoded user", zap.String("id", in.User.ID), zap.Int("bytes", len(payload)))

	return &EncodeResponse{Payload: payload}, nil
}

// Decode parses one wire object. Failures are *errors.DecodeError values.
func (s *Service) Decode(ctx context.Context, in DecodeRequest) (*DecodeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx, s.log)

	u, err := domain.Decode(in.Payload, s.decodeOptions(in.Strict)...)
	if err != nil {
		logDecodeFailure(log, err)
		return nil, err
	}

	log.Debug("decoded user", zap.String("id", u.ID), zap.Int("offset_minutes", u.CreatedAt.OffsetMinutes()))
	return &DecodeResponse{User: u}, nil
}

// DecodeBatch decodes every payload independently and concurrently. Item
// failures are reported in their result slot; only request validation and
// context cancellation fail the whole batch.
func (s *Service) DecodeBatch(ctx context.Context, in DecodeBatchRequest) (*DecodeBatchResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, pkgerrors.NewValidationError("payloads", "at least one payload is required")
	}
	if s.cfg.BatchMaxItems > 0 && len(in.Payloads) > s.cfg.BatchMaxItems {
		log.Warn("batch too large", zap.Int("items", len(in.Payloads)), zap.Int("max", s.cfg.BatchMaxItems))
		return nil, pkgerrors.NewValidationError("payloads", fmt.Sprintf("at most %d payloads per batch", s.cfg.BatchMaxItems))
	}

	log.Info("decoding batch", zap.Int("items", len(in.Payloads)), zap.Bool("strict", in.Strict || s.cfg.Strict))

	opts := s.decodeOptions(in.Strict)
	results := make([]DecodeResult, len(in.Payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchWorkers)

	for i, payload := range in.Payloads {
		i, payload := i, payload
		results[i].Index = i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := domain.Decode(payload, opts...)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].User = &u
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("batch aborted", zap.Error(err))
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		log.Warn("batch had rejected items", zap.Int("failed", failed), zap.Int("items", len(results)))
	}

	return &DecodeBatchResponse{Results: results, Failed: failed}, nil
}

func (s *Service) decodeOptions(strict bool) []domain.DecodeOption {
	if strict || s.cfg.Strict {
		return []domain.DecodeOption{domain.DisallowUnknownFields()}
	}
	return nil
}

func logDecodeFailure(log *zap.Logger, err error) {
	var decErr *pkgerrors.DecodeError
	if errors.As(err, &decErr) {
		log.Warn("decode rejected",
			zap.String("reason", string(decErr.Reason)),
			zap.String("field", decErr.Field),
			zap.Error(err),
		)
		return
	}
	log.Error("decode failed", zap.Error(err))
}
