package aggregator

import (
	"context"
	"fmt"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"
)

// ProtocolConfigurationFields are the configuration manager getters read by GetProtocolConfiguration.
var ProtocolConfigurationFields = []string{
	"getEmergencyStop",
	"getPriceProvider",
	"getIVProvider",
	"getIVGuesser",
	"getOptionPoolRegistry",
	"getAMMFactory",
	"getOptionHelper",
}

// GetOptionCaps reads the minting cap of every option from the cap provider.
// A reverted lookup means the option is uncapped and decodes to zero.
func (a *Aggregator) GetOptionCaps(ctx context.Context, provider port.ChainProvider, capProvider string, options []*entity.Option) (entity.MetricsMap, error) {
	_, capAddress, err := normalizeAddress(capProvider)
	if err != nil {
		return nil, fmt.Errorf("%w: cap provider: %v", ErrMissingParameter, err)
	}

	options = uniqueOptions(options)
	descriptors := make([]multicall.CallDescriptor, 0, len(options))
	for _, o := range options {
		target, id, err := normalizeAddress(o.Address)
		if err != nil {
			return nil, err
		}
		d, err := multicall.Instructions(
			correlationID("cap", id), capAddress, a.abis.CapProvider,
			multicall.Context{multicall.ContextID: id}, multicall.Custom(),
			multicall.Call(refCap, "getCap", target),
		)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	batch, err := a.engine.Execute(ctx, provider, descriptors)
	if err != nil {
		return nil, err
	}
	routed := multicall.Route(batch)

	out := make(entity.MetricsMap, len(options))
	for _, o := range options {
		c := a.interpreter.Cap(callResult(routed.Entity(o.ID()), refCap), o)
		out.Entry(o.ID()).Cap = &c
	}
	return out, nil
}

// GetProtocolConfiguration reads the addresses wired into the configuration manager.
func (a *Aggregator) GetProtocolConfiguration(ctx context.Context, provider port.ChainProvider, configurationManager string) (*entity.StaticFields, error) {
	_, id, err := normalizeAddress(configurationManager)
	if err != nil {
		return nil, fmt.Errorf("%w: configuration manager: %v", ErrMissingParameter, err)
	}
	statics, err := a.GetStatics(ctx, provider, a.abis.ConfigurationManager, []string{id}, StaticFieldSet{Text: ProtocolConfigurationFields})
	if err != nil {
		return nil, err
	}
	return statics[id], nil
}
