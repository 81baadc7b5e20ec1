package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/Business010101/aimodbot/pkg/domain/model"
	"github.com/Business010101/aimodbot/pkg/domain/types"
)

// Policy holds the CLI flag for the confirmation policy file
type Policy struct {
	path string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "TOML file overriding confirmation behavior (destructive kinds, pending TTL)",
			Category:    "Policy",
			Sources:     cli.EnvVars("AIMODBOT_POLICY_FILE"),
			Destination: &x.path,
		},
	}
}

func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// policyFile is the on-disk shape of the policy
type policyFile struct {
	DestructiveKinds []string `toml:"destructive_kinds"`
	PendingTTL       string   `toml:"pending_ttl"`
}

// Configure loads the policy file. No file configured means nil, which uses
// the built-in confirmation rules.
func (x *Policy) Configure() (*model.Policy, error) {
	if x.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(PolicyPathKey, x.path))
	}

	var file policyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidPolicy, "failed to parse policy file",
			goerr.V(PolicyPathKey, x.path), goerr.V("cause", err))
	}

	policy := &model.Policy{}
	for _, s := range file.DestructiveKinds {
		kind, err := types.ParseActionKind(s)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidPolicy, "unknown action kind in policy",
				goerr.V(PolicyPathKey, x.path), goerr.V(KindKey, s))
		}
		policy.DestructiveKinds = append(policy.DestructiveKinds, kind)
	}

	if file.PendingTTL != "" {
		ttl, err := time.ParseDuration(file.PendingTTL)
		if err != nil || ttl <= 0 {
			return nil, goerr.Wrap(ErrInvalidPolicy, "invalid pending_ttl",
				goerr.V(PolicyPathKey, x.path), goerr.V("pending_ttl", file.PendingTTL))
		}
		policy.PendingTTL = ttl
	}

	return policy, nil
}
