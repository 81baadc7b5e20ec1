package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	"github.com/Business010101/aimodbot/pkg/utils/errutil"
)

// ConfirmUseCase is the coordinator between translation and execution. Plans
// with a destructive action park in the pending store until the requester
// confirms or declines; everything else runs immediately.
type ConfirmUseCase struct {
	repo   interfaces.Repository
	exec   *ExecuteUseCase
	policy *model.Policy

	// now is replaceable for deadline tests
	now func() time.Time
}

func NewConfirmUseCase(repo interfaces.Repository, exec *ExecuteUseCase, policy *model.Policy) *ConfirmUseCase {
	return &ConfirmUseCase{
		repo:   repo,
		exec:   exec,
		policy: policy,
		now:    time.Now,
	}
}

// RequiresConfirmation reports whether the plan must be confirmed by a human
// before execution
func (uc *ConfirmUseCase) RequiresConfirmation(actions model.ActionList) bool {
	return actions.RequiresConfirmation(uc.policy)
}

// PendingTTL returns how long a registered plan stays confirmable
func (uc *ConfirmUseCase) PendingTTL() time.Duration {
	return uc.policy.TTL()
}

// RegisterPending parks a plan under the given token until the requester
// confirms it. The token is the ID of the confirmation prompt message, so a
// button click carries it back for free.
func (uc *ConfirmUseCase) RegisterPending(ctx context.Context, token types.ConfirmToken, guildID, requesterID, instruction string, actions model.ActionList) (*model.PendingEntry, error) {
	now := uc.now().UTC()
	entry := &model.PendingEntry{
		Token:       token,
		GuildID:     guildID,
		RequesterID: requesterID,
		Instruction: instruction,
		Actions:     actions,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.policy.TTL()),
	}

	if err := uc.repo.Pending().Put(ctx, entry); err != nil {
		return nil, goerr.Wrap(err, "failed to register pending plan",
			goerr.V("token", token), goerr.V("guildID", guildID))
	}

	return entry, nil
}

// Confirm atomically claims the pending plan for the requester and executes
// it. Only the original requester can confirm; anyone else gets ErrNotOwner
// from the store and the plan stays claimable. A confirmed plan is gone from
// the store before execution starts, so a double click cannot run it twice.
func (uc *ConfirmUseCase) Confirm(ctx context.Context, token types.ConfirmToken, requesterID string) ([]model.ActionOutcome, error) {
	entry, err := uc.repo.Pending().TakeIfOwner(ctx, token, requesterID)
	if err != nil {
		return nil, err
	}

	outcomes := uc.exec.Execute(ctx, entry.GuildID, entry.Actions)
	uc.recordHistory(ctx, entry.GuildID, entry.RequesterID, entry.Instruction, entry.Actions, outcomes, true)

	return outcomes, nil
}

// Decline removes the pending plan without executing it. Ownership is
// enforced the same way as Confirm: a non-requester cannot cancel someone
// else's plan.
func (uc *ConfirmUseCase) Decline(ctx context.Context, token types.ConfirmToken, requesterID string) error {
	if _, err := uc.repo.Pending().TakeIfOwner(ctx, token, requesterID); err != nil {
		return err
	}
	return nil
}

// Expire drops a pending plan whose confirmation window has closed. It is
// idempotent: a plan already confirmed or declined is silently ignored.
func (uc *ConfirmUseCase) Expire(ctx context.Context, token types.ConfirmToken) error {
	return uc.repo.Pending().Discard(ctx, token)
}

// RunImmediate executes a plan that needs no confirmation gate, either
// because it contains no destructive action or because the requester asked
// for auto confirmation.
func (uc *ConfirmUseCase) RunImmediate(ctx context.Context, guildID, requesterID, instruction string, actions model.ActionList) []model.ActionOutcome {
	outcomes := uc.exec.Execute(ctx, guildID, actions)
	uc.recordHistory(ctx, guildID, requesterID, instruction, actions, outcomes, false)
	return outcomes
}

// recordHistory writes the audit record. Audit failures are logged, never
// surfaced: the command already ran and the user deserves its real result.
func (uc *ConfirmUseCase) recordHistory(ctx context.Context, guildID, requesterID, instruction string, actions model.ActionList, outcomes []model.ActionOutcome, confirmed bool) {
	record := &model.CommandRecord{
		GuildID:     guildID,
		RequesterID: requesterID,
		Instruction: instruction,
		Actions:     actions,
		Outcomes:    outcomes,
		Confirmed:   confirmed,
	}

	if _, err := uc.repo.History().Create(ctx, record); err != nil {
		_ = errutil.Handle(ctx, err, "failed to record command history")
	}
}

// History returns the most recent audit records for a guild
func (uc *ConfirmUseCase) History(ctx context.Context, guildID string, limit int) ([]*model.CommandRecord, error) {
	records, err := uc.repo.History().List(ctx, guildID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list command history", goerr.V("guildID", guildID))
	}
	return records, nil
}
