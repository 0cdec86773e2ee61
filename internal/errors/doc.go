// Package errors provides coded errors for the progression engine.
//
// An Error carries a Code, a message, an optional cause and metadata naming the
// character, talent or ability involved. Codes map onto gRPC status codes so the server
// can return them unchanged.
//
//	err := errors.InsufficientManaf("ability %s costs %d mana", id, cost).
//	    WithMeta("ability_id", id)
//
// Wrapping keeps the code and metadata of the wrapped error:
//
//	if _, err := repo.Update(ctx, input); err != nil {
//	    return errors.Wrapf(err, "failed to save character %s", id)
//	}
//
// Callers branch on the Is helpers:
//
//	if errors.IsOnCooldown(err) {
//	    // show the remaining cooldown
//	}
//
// Configs and requests are checked with a ValidationBuilder, which reports every
// problem at once as an InvalidArgument error:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("server.port", cfg.Port, 1, 65535, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Progression Codes
//
// Rule violations of the talent ledger and the ability gate have their own codes:
//   - InsufficientPoints: the group has no unspent point
//   - RankCapReached: the talent is at its maximum rank
//   - NothingAllocated: a refund was asked of a talent with rank 0
//   - InsufficientMana: the ability costs more mana than the character has
//   - OnCooldown: the ability has not recovered yet
//   - NotLearned: the ability is not learned
//   - ActivationFailed: the effect system rejected the activation
//
// UnknownTarget is never returned. The talent compiler logs it when it skips a modifier
// target no subsystem recognizes.
package errors
