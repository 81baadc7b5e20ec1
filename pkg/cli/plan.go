package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Business010101/aimodbot/pkg/cli/config"
	"github.com/Business010101/aimodbot/pkg/usecase"
)

func cmdPlan() *cli.Command {
	var geminiCfg config.Gemini
	var policyCfg config.Policy

	flags := []cli.Flag{}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, policyCfg.Flags()...)

	return &cli.Command{
		Name:      "plan",
		Aliases:   []string{"p"},
		Usage:     "Translate an instruction into an action plan without executing it",
		ArgsUsage: "<instruction>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			instruction := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(instruction) == "" {
				return goerr.New("instruction argument is required")
			}

			policy, err := policyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load policy")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			actions, err := usecase.NewTranslateUseCase(llmClient).Translate(ctx, instruction)
			if err != nil {
				return goerr.Wrap(err, "failed to translate instruction")
			}

			destructive := color.New(color.FgRed, color.Bold)
			safe := color.New(color.FgGreen)

			fmt.Printf("Plan for: %s\n\n", instruction)
			for i, a := range actions {
				if policy.IsDestructive(a.Kind) {
					destructive.Printf("%2d. %s  [needs confirmation]\n", i+1, a.String())
				} else {
					safe.Printf("%2d. %s\n", i+1, a.String())
				}
			}

			if actions.RequiresConfirmation(policy) {
				fmt.Println("\nThis plan would prompt for confirmation before executing.")
			}
			return nil
		},
	}
}
