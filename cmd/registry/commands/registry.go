package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sbu-community/sentinel/internal/registry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// checkConcurrency bounds parallel lookups for the 'check' command.
const checkConcurrency = 4

// checkResult is the registry state of one name.
type checkResult struct {
	name       string
	externalID string
	member     *registry.BannedMember
	err        error
}

// RegistryCommands returns the ban registry commands.
func RegistryCommands(deps *CLIDependencies) []*cli.Command {
	rawFlag := &cli.BoolFlag{
		Name:    "raw",
		Usage:   "Treat NAME as an external ID and skip the lookup",
		Aliases: []string{"r"},
	}

	return []*cli.Command{
		{
			Name:      "check",
			Usage:     "Check whether accounts are in the ban registry",
			ArgsUsage: "NAME...",
			Description: `Resolve each name and report whether it is banned.

Examples:
  registry check Notch               # Check a single account
  registry check Notch jeb_ Dinnerbone
  registry check --raw 069a79f444e94726a5befca90e38aaf5`,
			Flags:  []cli.Flag{rawFlag},
			Action: handleCheck(deps),
		},
		{
			Name:      "add",
			Usage:     "Add an account to the ban registry",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				rawFlag,
				&cli.StringFlag{
					Name:  "reason",
					Usage: "Reason recorded with the ban",
				},
				&cli.StringFlag{
					Name:  "moderator",
					Usage: "Discord ID of the moderator recording the ban",
					Value: "0",
				},
			},
			Action: handleAdd(deps),
		},
		{
			Name:      "remove",
			Usage:     "Remove an account from the ban registry",
			ArgsUsage: "NAME",
			Flags:     []cli.Flag{rawFlag},
			Action:    handleRemove(deps),
		},
	}
}

// handleCheck handles the 'check' command.
func handleCheck(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		names := c.Args().Slice()
		if len(names) == 0 {
			return ErrNameRequired
		}

		raw := c.Bool("raw")
		results := make([]checkResult, len(names))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(checkConcurrency)

		for i, name := range names {
			g.Go(func() error {
				results[i] = checkName(gctx, deps, name, raw)
				return nil
			})
		}

		_ = g.Wait()

		for _, result := range results {
			switch {
			case result.err != nil:
				fmt.Fprintf(deps.Out, "%s: %v\n", result.name, result.err)
			case result.member == nil:
				fmt.Fprintf(deps.Out, "%s: not banned\n", result.name)
			default:
				fmt.Fprintf(deps.Out, "%s: banned (%s) by %d, reason: %s\n",
					result.name, result.externalID, result.member.ModeratorID, result.member.Reason)
			}
		}

		return nil
	}
}

// handleAdd handles the 'add' command.
func handleAdd(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrNameRequired
		}

		moderatorID, err := strconv.ParseUint(c.String("moderator"), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidID, err)
		}

		name := c.Args().First()

		externalID, err := resolveName(ctx, deps, name, c.Bool("raw"))
		if err != nil {
			return err
		}

		if err := deps.Registry.Insert(ctx, registry.NewBannedMember(externalID, c.String("reason"), moderatorID)); err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}

		deps.Logger.Info("Added to ban registry",
			zap.String("name", name),
			zap.String("external_id", externalID))
		fmt.Fprintf(deps.Out, "%s: added (%s)\n", name, externalID)

		return nil
	}
}

// handleRemove handles the 'remove' command.
func handleRemove(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrNameRequired
		}

		name := c.Args().First()

		externalID, err := resolveName(ctx, deps, name, c.Bool("raw"))
		if err != nil {
			return err
		}

		if err := deps.Registry.Delete(ctx, externalID); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}

		deps.Logger.Info("Removed from ban registry",
			zap.String("name", name),
			zap.String("external_id", externalID))
		fmt.Fprintf(deps.Out, "%s: removed (%s)\n", name, externalID)

		return nil
	}
}

func checkName(ctx context.Context, deps *CLIDependencies, name string, raw bool) checkResult {
	externalID, err := resolveName(ctx, deps, name, raw)
	if err != nil {
		return checkResult{name: name, err: err}
	}

	member, err := deps.Registry.Get(ctx, externalID)
	if errors.Is(err, registry.ErrNotFound) {
		return checkResult{name: name, externalID: externalID}
	}

	return checkResult{name: name, externalID: externalID, member: member, err: err}
}

func resolveName(ctx context.Context, deps *CLIDependencies, name string, raw bool) (string, error) {
	if raw {
		return name, nil
	}

	externalID, err := deps.Resolver.Lookup(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	return externalID, nil
}
