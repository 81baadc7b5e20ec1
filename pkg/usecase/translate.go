package usecase

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/utils/logging"
)

//go:embed prompt/translate_system.md
var translateSystemPrompt string

// DefaultTranslateTimeout bounds a single inference call
const DefaultTranslateTimeout = 20 * time.Second

// TranslateUseCase turns a natural language instruction into a validated
// action list. It never talks to Discord: planning and execution are separate
// stages with a human confirmation gate between them.
type TranslateUseCase struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
}

func NewTranslateUseCase(llmClient gollem.LLMClient) *TranslateUseCase {
	return &TranslateUseCase{
		llmClient: llmClient,
		timeout:   DefaultTranslateTimeout,
	}
}

// Translate sends the instruction to the model and parses the structured plan
// it returns. Every element is validated against the action vocabulary before
// anything is returned: a response with one bad element fails as a whole.
func (uc *TranslateUseCase) Translate(ctx context.Context, instruction string) (model.ActionList, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, goerr.Wrap(ErrEmptyInstruction, "nothing to translate")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildTranslateSchema()),
		gollem.WithSessionSystemPrompt(translateSystemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrInferenceUnavailable, "failed to create LLM session",
			goerr.V("cause", err))
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(instruction))
	if err != nil {
		return nil, goerr.Wrap(ErrInferenceUnavailable, "failed to generate action plan",
			goerr.V("cause", err), goerr.V(InstructionKey, instruction))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.Wrap(ErrMalformedResponse, "model returned no text")
	}

	raws, err := model.ExtractActionArray(resp.Texts[0])
	if err != nil {
		return nil, goerr.Wrap(ErrMalformedResponse, "failed to extract action array",
			goerr.V("cause", err), goerr.V("response", resp.Texts[0]))
	}
	if len(raws) == 0 {
		return nil, goerr.Wrap(ErrNoActions, "model returned an empty plan",
			goerr.V(InstructionKey, instruction))
	}

	actions := make(model.ActionList, 0, len(raws))
	for i, raw := range raws {
		action, err := model.ParseAction(raw)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidAction, "plan element rejected",
				goerr.V(IndexKey, i), goerr.V("cause", err))
		}
		actions = append(actions, *action)
	}

	logging.From(ctx).Debug("translated instruction",
		"instruction", instruction,
		"actionCount", len(actions),
	)

	return actions, nil
}

// buildTranslateSchema creates the JSON schema for structured output
func buildTranslateSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ActionPlan",
		Description: "Ordered administrative actions translated from the instruction",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"actions": {
				Type:        gollem.TypeArray,
				Description: "Actions in execution order; empty when nothing is actionable",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"kind": {
							Type:        gollem.TypeString,
							Description: "One of the fixed action kinds",
							Required:    true,
						},
						"target": {
							Type:        gollem.TypeString,
							Description: "Name of the channel, role, category, or user the action applies to",
							Required:    true,
						},
						"params": {
							Type:        gollem.TypeObject,
							Description: "Kind-specific parameters; omit keys that do not apply",
							Properties: map[string]*gollem.Parameter{
								"type":        {Type: gollem.TypeString, Description: "Channel type: text or voice"},
								"category":    {Type: gollem.TypeString, Description: "Category name to place the channel under"},
								"color":       {Type: gollem.TypeString, Description: "Role color as 6-digit hex RGB"},
								"role":        {Type: gollem.TypeString, Description: "Role name for assign_role and remove_role"},
								"subject":     {Type: gollem.TypeString, Description: "Role or user name the permission overwrite applies to"},
								"target_type": {Type: gollem.TypeString, Description: "Overwrite subject type: role or user"},
								"permissions": {Type: gollem.TypeObject, Description: "Permission name to boolean map"},
							},
						},
					},
				},
			},
		},
	}
}
