package usecase

import (
	"github.com/m-mizutani/gollem"

	"github.com/Business010101/aimodbot/pkg/domain/interfaces"
	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/service/discord"
)

type UseCases struct {
	repo   interfaces.Repository
	policy *model.Policy

	Translate *TranslateUseCase
	Execute   *ExecuteUseCase
	Confirm   *ConfirmUseCase
}

type Option func(*UseCases)

// WithPolicy overrides the built-in confirmation policy
func WithPolicy(p *model.Policy) Option {
	return func(uc *UseCases) {
		uc.policy = p
	}
}

// Policy returns the confirmation policy in effect; nil means built-in rules
func (uc *UseCases) Policy() *model.Policy {
	return uc.policy
}

func New(repo interfaces.Repository, llmClient gollem.LLMClient, discordSvc discord.Service, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Translate = NewTranslateUseCase(llmClient)
	uc.Execute = NewExecuteUseCase(discordSvc)
	uc.Confirm = NewConfirmUseCase(repo, uc.Execute, uc.policy)

	return uc
}
