package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	multihook "github.com/Najnomics/multihook-adapter"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeCommandFunc[T any](handler command.CommandFunc[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(handler, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func SubscribeQueryFunc[T any, R any](qry command.QueryFunc[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// RegisterFacade wires every bound command and query of the facade into the
// dispatcher and registry. Governance commands that the facade was built
// without are skipped. On any failure the already-created subscriptions are
// torn down.
func RegisterFacade(
	adapter *RegistryAdapter,
	facade *multihook.Facade,
	runnerOpts ...runner.Option,
) ([]commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if facade == nil {
		return nil, fmt.Errorf("gocommand: facade is required")
	}

	var subscriptions []commanddispatcher.Subscription
	fail := func(err error) ([]commanddispatcher.Subscription, error) {
		for _, subscription := range subscriptions {
			if subscription != nil {
				subscription.Unsubscribe()
			}
		}
		return nil, err
	}
	track := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			return err
		}
		subscriptions = append(subscriptions, subscription)
		return nil
	}

	commands := facade.Commands()
	if err := track(RegisterAndSubscribe(adapter, commands.RegisterHooks, runnerOpts...)); err != nil {
		return fail(err)
	}
	if err := track(RegisterAndSubscribe(adapter, commands.RegisterHooksWithFeeMethod, runnerOpts...)); err != nil {
		return fail(err)
	}
	if err := track(RegisterAndSubscribe(adapter, commands.RegisterHooksWithFeeConfig, runnerOpts...)); err != nil {
		return fail(err)
	}
	if commands.ApproveHook != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.ApproveHook, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.RevokeHook != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.RevokeHook, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.AddHook != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.AddHook, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.RemoveHook != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.RemoveHook, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.SetFeeMethod != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.SetFeeMethod, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.SetPoolFee != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.SetPoolFee, runnerOpts...)); err != nil {
			return fail(err)
		}
	}
	if commands.SetGovernanceFee != nil {
		if err := track(RegisterAndSubscribe(adapter, commands.SetGovernanceFee, runnerOpts...)); err != nil {
			return fail(err)
		}
	}

	queries := facade.Queries()
	if err := track(RegisterAndSubscribeQuery(adapter, queries.GetHookSet, runnerOpts...)); err != nil {
		return fail(err)
	}
	if err := track(RegisterAndSubscribeQuery(adapter, queries.GetFeeConfig, runnerOpts...)); err != nil {
		return fail(err)
	}
	if err := track(RegisterAndSubscribeQuery(adapter, queries.CalculateFee, runnerOpts...)); err != nil {
		return fail(err)
	}
	if queries.GetHookApproval != nil {
		if err := track(RegisterAndSubscribeQuery(adapter, queries.GetHookApproval, runnerOpts...)); err != nil {
			return fail(err)
		}
	}

	return subscriptions, nil
}
