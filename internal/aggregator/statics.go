package aggregator

import (
	"context"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// StaticFieldSet lists the zero-argument methods read for one contract kind,
// grouped by how their first output is decoded.
type StaticFieldSet struct {
	Text         []string
	Integer      []string
	IntegerArray []string
}

var (
	OptionStaticFields = StaticFieldSet{
		Text: []string{"name", "symbol", "underlyingAsset", "strikeAsset"},
		Integer: []string{
			"decimals", "optionType", "exerciseType", "strikePrice", "strikePriceDecimals",
			"expiration", "startOfExerciseWindow", "underlyingAssetDecimals", "strikeAssetDecimals",
		},
	}

	PoolStaticFields = StaticFieldSet{
		Text:    []string{"tokenA", "tokenB", "feePoolA", "feePoolB"},
		Integer: []string{"tokenADecimals", "tokenBDecimals"},
	}

	TokenStaticFields = StaticFieldSet{
		Text:    []string{"symbol", "name"},
		Integer: []string{"decimals"},
	}
)

// GetOptionsStatics reads the static fields of every option in one batch.
func (a *Aggregator) GetOptionsStatics(ctx context.Context, provider port.ChainProvider, addresses []string) (map[string]*entity.StaticFields, error) {
	return a.GetStatics(ctx, provider, a.abis.Option, addresses, OptionStaticFields)
}

func (a *Aggregator) GetPoolsStatics(ctx context.Context, provider port.ChainProvider, addresses []string) (map[string]*entity.StaticFields, error) {
	return a.GetStatics(ctx, provider, a.abis.Pool, addresses, PoolStaticFields)
}

// GetTokensSymbols reads symbol, name and decimals of ERC20 tokens.
func (a *Aggregator) GetTokensSymbols(ctx context.Context, provider port.ChainProvider, addresses []string) (map[string]*entity.StaticFields, error) {
	return a.GetStatics(ctx, provider, a.abis.ERC20, addresses, TokenStaticFields)
}

// GetStatics issues one descriptor per decode kind per address. Every
// requested address is present in the result; fields whose call failed are omitted.
func (a *Aggregator) GetStatics(
	ctx context.Context,
	provider port.ChainProvider,
	contractABI *abi.ABI,
	addresses []string,
	fields StaticFieldSet,
) (map[string]*entity.StaticFields, error) {
	ids := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	var descriptors []multicall.CallDescriptor

	for _, address := range addresses {
		_, id, err := normalizeAddress(address)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)

		groups := []struct {
			kind     string
			decoding multicall.Decoding
			methods  []string
		}{
			{"text", multicall.Text(), fields.Text},
			{"integer", multicall.Integer(), fields.Integer},
			{"array", multicall.IntegerArray(), fields.IntegerArray},
		}
		for _, g := range groups {
			if len(g.methods) == 0 {
				continue
			}
			calls := make([]multicall.CallSpec, len(g.methods))
			for i, m := range g.methods {
				calls[i] = multicall.Call(m, m)
			}
			d, err := multicall.Instructions(correlationID(g.kind, id), id, contractABI, multicall.Context{multicall.ContextID: id}, g.decoding, calls...)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, d)
		}
	}

	batch, err := a.engine.Execute(ctx, provider, descriptors)
	if err != nil {
		return nil, err
	}
	routed := multicall.Route(batch)

	out := make(map[string]*entity.StaticFields, len(ids))
	for _, id := range ids {
		statics := entity.NewStaticFields()
		for ref, slot := range routed.Entity(id) {
			if !slot.Defined() {
				continue
			}
			switch slot.Decoding.Kind {
			case multicall.DecodeText:
				statics.Values[ref] = slot.Text
			case multicall.DecodeInteger:
				statics.Values[ref] = slot.IntegerString()
			case multicall.DecodeIntegerArray:
				statics.Arrays[ref] = slot.IntegerStrings()
			}
		}
		out[id] = statics
	}
	return out, nil
}
