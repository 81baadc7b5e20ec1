package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
	svc "github.com/Business010101/aimodbot/pkg/service/discord"
	"github.com/Business010101/aimodbot/pkg/usecase"
	"github.com/Business010101/aimodbot/pkg/utils/async"
	"github.com/Business010101/aimodbot/pkg/utils/logging"
)

const (
	confirmButtonID = "plan_confirm"
	declineButtonID = "plan_decline"

	defaultHistoryLimit = 5
)

// Handler routes Discord interactions into the use case layer: slash commands
// in, confirmation buttons back. The token tying a button click to its pending
// plan is the ID of the confirmation prompt message itself.
type Handler struct {
	client  *svc.Client
	uc      *usecase.UseCases
	appID   string
	guildID string

	mu     sync.Mutex
	timers map[types.ConfirmToken]*time.Timer

	removeHandler func()
}

// New creates an interaction handler. guildID scopes command registration to
// one guild for instant availability; empty registers globally.
func New(client *svc.Client, uc *usecase.UseCases, appID, guildID string) *Handler {
	return &Handler{
		client:  client,
		uc:      uc,
		appID:   appID,
		guildID: guildID,
		timers:  make(map[types.ConfirmToken]*time.Timer),
	}
}

// Register installs the gateway handler and overwrites the application
// commands. Call after the session is open.
func (h *Handler) Register(ctx context.Context) error {
	session := h.client.Session()

	h.removeHandler = session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		h.onInteraction(logging.With(context.Background(), logging.From(ctx)), ic)
	})

	if _, err := session.ApplicationCommandBulkOverwrite(h.appID, h.guildID, commandDefinitions()); err != nil {
		return goerr.Wrap(err, "failed to register application commands",
			goerr.V("appID", h.appID), goerr.V("guildID", h.guildID))
	}

	logging.From(ctx).Info("registered application commands",
		"appID", h.appID,
		"guildID", h.guildID,
	)
	return nil
}

// Shutdown removes the gateway handler and stops pending expiry timers
func (h *Handler) Shutdown() {
	if h.removeHandler != nil {
		h.removeHandler()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for token, timer := range h.timers {
		timer.Stop()
		delete(h.timers, token)
	}
}

func (h *Handler) onInteraction(ctx context.Context, ic *discordgo.InteractionCreate) {
	switch ic.Type {
	case discordgo.InteractionApplicationCommand:
		data := ic.ApplicationCommandData()
		switch data.Name {
		case "admin":
			h.handleAdmin(ctx, ic, data)
		case "mod":
			h.handleMod(ctx, ic, data)
		case "history":
			h.handleHistory(ctx, ic, data)
		}
	case discordgo.InteractionMessageComponent:
		h.handleComponent(ctx, ic)
	}
}

func (h *Handler) handleAdmin(ctx context.Context, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	var instruction string
	autoConfirm := false
	for _, opt := range data.Options {
		switch opt.Name {
		case "instruction":
			instruction = opt.StringValue()
		case "auto_confirm":
			autoConfirm = opt.BoolValue()
		}
	}

	if err := h.deferResponse(ic); err != nil {
		logging.From(ctx).Error("failed to defer interaction response", "error", err)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		actions, err := h.uc.Translate.Translate(ctx, instruction)
		if err != nil {
			h.editResponse(ic, translateErrorMessage(err))
			return err
		}

		return h.propose(ctx, ic, instruction, actions, autoConfirm)
	})
}

func (h *Handler) handleMod(ctx context.Context, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	action, err := directAction(sub)
	if err != nil {
		h.respondEphemeral(ic, fmt.Sprintf("Invalid command: %s", err))
		return
	}

	if err := h.deferResponse(ic); err != nil {
		logging.From(ctx).Error("failed to defer interaction response", "error", err)
		return
	}

	instruction := "/mod " + sub.Name + " " + action.Target
	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.propose(ctx, ic, instruction, model.ActionList{*action}, false)
	})
}

// propose runs the authorize-confirm-execute pipeline shared by the natural
// language command and the direct commands
func (h *Handler) propose(ctx context.Context, ic *discordgo.InteractionCreate, instruction string, actions model.ActionList, autoConfirm bool) error {
	if err := usecase.Authorize(capabilitiesFrom(ic), actions, h.uc.Policy()); err != nil {
		h.editResponse(ic, "You do not have permission to run this.")
		return err
	}

	guildID := ic.GuildID
	requesterID := requesterOf(ic)

	if !autoConfirm && h.uc.Confirm.RequiresConfirmation(actions) {
		return h.proposeConfirmation(ctx, ic, guildID, requesterID, instruction, actions)
	}

	outcomes := h.uc.Confirm.RunImmediate(ctx, guildID, requesterID, instruction, actions)
	h.editResponse(ic, usecase.FormatOutcomes(outcomes))
	return nil
}

func (h *Handler) proposeConfirmation(ctx context.Context, ic *discordgo.InteractionCreate, guildID, requesterID, instruction string, actions model.ActionList) error {
	content := "This plan contains destructive actions. Confirm to execute:\n" + usecase.FormatPlan(actions)
	components := confirmComponents()

	msg, err := h.client.Session().InteractionResponseEdit(ic.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to post confirmation prompt")
	}

	token := types.ConfirmToken(msg.ID)
	if _, err := h.uc.Confirm.RegisterPending(ctx, token, guildID, requesterID, instruction, actions); err != nil {
		h.editResponse(ic, "Failed to prepare the confirmation. Try again.")
		return err
	}

	h.scheduleExpiry(ctx, ic, token)
	return nil
}

// scheduleExpiry edits the prompt and drops the pending plan when nobody
// answers inside the confirmation window
func (h *Handler) scheduleExpiry(ctx context.Context, ic *discordgo.InteractionCreate, token types.ConfirmToken) {
	ttl := h.uc.Confirm.PendingTTL()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.timers[token] = time.AfterFunc(ttl, func() {
		h.mu.Lock()
		delete(h.timers, token)
		h.mu.Unlock()

		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := h.uc.Confirm.Expire(ctx, token); err != nil {
				return err
			}
			h.editResponse(ic, "Confirmation timed out. Nothing was executed.")
			return nil
		})
	})
}

func (h *Handler) cancelExpiry(token types.ConfirmToken) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if timer, ok := h.timers[token]; ok {
		timer.Stop()
		delete(h.timers, token)
	}
}

func (h *Handler) handleComponent(ctx context.Context, ic *discordgo.InteractionCreate) {
	customID := ic.MessageComponentData().CustomID
	if customID != confirmButtonID && customID != declineButtonID {
		return
	}

	token := types.ConfirmToken(ic.Message.ID)
	requesterID := requesterOf(ic)

	// Ack immediately: execution can take longer than the interaction window
	err := h.client.Session().InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		logging.From(ctx).Error("failed to ack component interaction", "error", err)
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if customID == declineButtonID {
			if err := h.uc.Confirm.Decline(ctx, token, requesterID); err != nil {
				h.respondPendingError(ic, err)
				return nil
			}
			h.cancelExpiry(token)
			h.editMessage(ic, "Cancelled. Nothing was executed.")
			return nil
		}

		outcomes, err := h.uc.Confirm.Confirm(ctx, token, requesterID)
		if err != nil {
			h.respondPendingError(ic, err)
			return nil
		}
		h.cancelExpiry(token)
		h.editMessage(ic, usecase.FormatOutcomes(outcomes))
		return nil
	})
}

func (h *Handler) handleHistory(ctx context.Context, ic *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	limit := defaultHistoryLimit
	for _, opt := range data.Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	records, err := h.uc.Confirm.History(ctx, ic.GuildID, limit)
	if err != nil {
		h.respondEphemeral(ic, "Failed to load command history.")
		logging.From(ctx).Error("failed to load history", "error", err)
		return
	}

	if len(records) == 0 {
		h.respondEphemeral(ic, "No administrative commands recorded yet.")
		return
	}

	var sb strings.Builder
	for _, rec := range records {
		succeeded, failed := model.CountOutcomes(rec.Outcomes)
		fmt.Fprintf(&sb, "`%s` <@%s>: %s (%d ok, %d failed)\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.RequesterID, rec.Instruction, succeeded, failed)
	}
	h.respondEphemeral(ic, sb.String())
}

// respondPendingError tells the clicker the plan is not theirs to answer.
// Ownership and absence look identical on purpose.
func (h *Handler) respondPendingError(ic *discordgo.InteractionCreate, err error) {
	if errors.Is(err, interfaces.ErrNotOwner) || errors.Is(err, interfaces.ErrPendingNotFound) {
		h.followupEphemeral(ic, "No pending action for you to confirm.")
		return
	}
	h.followupEphemeral(ic, "Something went wrong handling the confirmation.")
}

func (h *Handler) deferResponse(ic *discordgo.InteractionCreate) error {
	return h.client.Session().InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (h *Handler) editResponse(ic *discordgo.InteractionCreate, content string) {
	empty := []discordgo.MessageComponent{}
	_, err := h.client.Session().InteractionResponseEdit(ic.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &empty,
	})
	if err != nil {
		logging.Default().Error("failed to edit interaction response", "error", err)
	}
}

// editMessage rewrites the confirmation prompt message after a button click
func (h *Handler) editMessage(ic *discordgo.InteractionCreate, content string) {
	empty := []discordgo.MessageComponent{}
	_, err := h.client.Session().ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ic.ChannelID,
		ID:         ic.Message.ID,
		Content:    &content,
		Components: &empty,
	})
	if err != nil {
		logging.Default().Error("failed to edit prompt message", "error", err)
	}
}

func (h *Handler) respondEphemeral(ic *discordgo.InteractionCreate, content string) {
	err := h.client.Session().InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logging.Default().Error("failed to respond to interaction", "error", err)
	}
}

func (h *Handler) followupEphemeral(ic *discordgo.InteractionCreate, content string) {
	_, err := h.client.Session().FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		logging.Default().Error("failed to send followup message", "error", err)
	}
}

func confirmComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.DangerButton,
					CustomID: confirmButtonID,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: declineButtonID,
				},
			},
		},
	}
}

// capabilitiesFrom resolves the requester's effective permissions from the
// interaction member
func capabilitiesFrom(ic *discordgo.InteractionCreate) usecase.Capabilities {
	if ic.Member == nil {
		return usecase.Capabilities{}
	}
	perms := ic.Member.Permissions
	return usecase.Capabilities{
		ManageGuild:   perms&discordgo.PermissionManageServer != 0,
		Administrator: perms&discordgo.PermissionAdministrator != 0,
	}
}

func requesterOf(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

// translateErrorMessage maps translation failures to user-facing text
func translateErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrEmptyInstruction):
		return "Give me an instruction to work with."
	case errors.Is(err, usecase.ErrNoActions):
		return "I could not find anything actionable in that instruction."
	case errors.Is(err, usecase.ErrInferenceUnavailable):
		return "The language model is unavailable right now. Try again shortly."
	case errors.Is(err, usecase.ErrMalformedResponse), errors.Is(err, usecase.ErrInvalidAction):
		return "I could not turn that into a valid plan. Try rephrasing."
	default:
		return "Something went wrong processing the instruction."
	}
}
