package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func meta(err error) map[string]any {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Meta
	}
	return nil
}

func (s *ErrorsTestSuite) TestErrorText() {
	err := errors.NotFoundf("character %s not found", "char_1")
	s.Equal("NOT_FOUND: character char_1 not found", err.Error())

	wrapped := errors.Wrap(err, "failed to load character")
	s.Equal("NOT_FOUND: failed to load character: NOT_FOUND: character char_1 not found", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapKeepsCodeAndMeta() {
	base := errors.RankCapReachedf("talent %s is at rank %d", "might", 5).
		WithMeta("talent_id", "might")

	wrapped := errors.Wrapf(base, "failed to allocate %s", "might")

	s.True(errors.IsRankCapReached(wrapped))
	s.Equal("might", meta(wrapped)["talent_id"])
	s.Same(base, stderrors.Unwrap(wrapped))

	// meta of the wrapper is a copy
	wrapped.WithMeta("group_id", "general")
	s.NotContains(base.Meta, "group_id")
}

func (s *ErrorsTestSuite) TestWrapForeignErrorIsInternal() {
	wrapped := errors.Wrap(fmt.Errorf("disk full"), "failed to save character")

	s.True(errors.IsInternal(wrapped))
	s.Nil(wrapped.Meta)
}

func (s *ErrorsTestSuite) TestWrapWithCodeReclassifies() {
	base := errors.NotFound("key missing").WithMeta("key", "character:char_1")
	wrapped := errors.WrapWithCodef(base, errors.CodeDataLoss, "character %s is unreadable", "char_1")

	s.Equal(errors.CodeDataLoss, errors.GetCode(wrapped))
	s.Equal("character:char_1", meta(wrapped)["key"])
	s.True(stderrors.Is(wrapped, errors.NotFound("any")))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "unused"))
	s.Nil(errors.Wrapf(nil, "unused %d", 1))
	s.Nil(errors.WrapWithCode(nil, errors.CodeUnavailable, "unused"))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain")))
	s.Equal(errors.CodeAborted, errors.GetCode(fmt.Errorf("save: %w", errors.Aborted("version conflict"))))
}

func (s *ErrorsTestSuite) TestErrorIsMatchesCode() {
	s.True(errors.OnCooldownf("a").Is(errors.OnCooldownf("b")))
	s.False(errors.OnCooldownf("a").Is(errors.NotLearnedf("a")))
	s.False(errors.OnCooldownf("a").Is(fmt.Errorf("a")))
}

func (s *ErrorsTestSuite) TestRejectionCodes() {
	testCases := []struct {
		name     string
		err      *errors.Error
		check    func(error) bool
		grpcCode codes.Code
	}{
		{"insufficient points", errors.InsufficientPointsf("group %s has no points", "general"), errors.IsInsufficientPoints, codes.ResourceExhausted},
		{"rank cap", errors.RankCapReachedf("talent %s at max rank", "might"), errors.IsRankCapReached, codes.FailedPrecondition},
		{"nothing allocated", errors.NothingAllocatedf("talent %s has no ranks", "might"), errors.IsNothingAllocated, codes.FailedPrecondition},
		{"insufficient mana", errors.InsufficientManaf("need %d mana", 10), errors.IsInsufficientMana, codes.ResourceExhausted},
		{"on cooldown", errors.OnCooldownf("ability %s on cooldown", "fireball"), errors.IsOnCooldown, codes.FailedPrecondition},
		{"not learned", errors.NotLearnedf("ability %s not learned", "fireball"), errors.IsNotLearned, codes.FailedPrecondition},
		{"activation failed", errors.ActivationFailedf("ability %s failed", "fireball"), errors.IsActivationFailed, codes.Aborted},
		{"version conflict", errors.Abortedf("version %d is stale", 3), errors.IsAborted, codes.Aborted},
		{"duplicate", errors.AlreadyExistsf("character %s exists", "char_1"), errors.IsAlreadyExists, codes.AlreadyExists},
		{"catalog down", errors.Unavailablef("catalog %s offline", "items"), errors.IsUnavailable, codes.Unavailable},
		{"buff missing", errors.FailedPreconditionf("buff %s is not active", "war_cry"), errors.IsFailedPrecondition, codes.FailedPrecondition},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.True(tc.check(tc.err))
			s.True(tc.check(errors.Wrap(tc.err, "wrapped")))
			s.False(errors.IsInvalidArgument(tc.err))
			s.Equal(tc.grpcCode, tc.err.Code.GRPCCode())
		})
	}
}

func (s *ErrorsTestSuite) TestGRPCCodes() {
	s.Equal(codes.InvalidArgument, errors.CodeUnknownTarget.GRPCCode())
	s.Equal(codes.DataLoss, errors.CodeDataLoss.GRPCCode())
	s.Equal(codes.Unknown, errors.Code("MYSTERY").GRPCCode())
}

func (s *ErrorsTestSuite) TestGRPCRoundTripKeepsProgressionCode() {
	err := errors.OnCooldownf("ability %s on cooldown", "fireball").
		WithMeta("ability_id", "fireball").
		WithMeta("ready_at", int64(1700000000))

	sent := errors.ToGRPCError(errors.Wrap(err, "failed to activate"))
	st, ok := status.FromError(sent)
	s.Require().True(ok)
	s.Equal(codes.FailedPrecondition, st.Code())
	s.Equal("failed to activate", st.Message())

	back := errors.FromGRPCError(sent)
	s.True(errors.IsOnCooldown(back))
	s.Equal("fireball", meta(back)["ability_id"])
	s.Equal(float64(1700000000), meta(back)["ready_at"])
}

func (s *ErrorsTestSuite) TestGRPCConversionOfPlainErrors() {
	s.Nil(errors.ToGRPCError(nil))
	s.Nil(errors.FromGRPCError(nil))

	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Equal(codes.Internal, st.Code())

	already := status.Error(codes.NotFound, "gone")
	s.Equal(already, errors.ToGRPCError(already))

	s.True(errors.IsUnavailable(errors.FromGRPCError(status.Error(codes.DeadlineExceeded, "slow"))))
	s.True(errors.IsNotFound(errors.FromGRPCError(status.Error(codes.NotFound, "gone"))))
	s.True(errors.IsInternal(errors.FromGRPCError(status.Error(codes.Unimplemented, "nope"))))

	plain := fmt.Errorf("not a status")
	s.Equal(plain, errors.FromGRPCError(plain))
}
