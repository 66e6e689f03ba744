package optionloader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// OptionFileLoader implements the port.OptionListProvider interface.
type OptionFileLoader struct {
	logger port.Logger
}

// NewOptionLoader creates a new OptionFileLoader.
func NewOptionLoader(log port.Logger) port.OptionListProvider {
	return &OptionFileLoader{logger: log}
}

// GetOptionRefs reads the option list of a network. Entries with an invalid
// option address are skipped, an invalid pool address is dropped, and
// repeated options keep their first occurrence.
func (l *OptionFileLoader) GetOptionRefs(networkDefinition entity.NetworkDefinition) ([]port.OptionRef, error) {
	if networkDefinition.OptionsFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(networkDefinition.OptionsFile)
	if err != nil {
		l.logger.Warn("Failed to read option file", "path", networkDefinition.OptionsFile, "error", err)
		return nil, fmt.Errorf("failed to read option file %s: %w", networkDefinition.OptionsFile, err)
	}

	var refsInFile []port.OptionRef
	if err := json.Unmarshal(data, &refsInFile); err != nil {
		l.logger.Warn("Failed to unmarshal options from file", "path", networkDefinition.OptionsFile, "error", err)
		return nil, fmt.Errorf("failed to unmarshal option file %s: %w", networkDefinition.OptionsFile, err)
	}

	seen := make(map[string]struct{}, len(refsInFile))
	refs := make([]port.OptionRef, 0, len(refsInFile))
	for _, ref := range refsInFile {
		option := strings.ToLower(strings.TrimSpace(ref.Option))
		if !common.IsHexAddress(option) {
			l.logger.Warn("Option has invalid address in file, skipping.", "file", networkDefinition.OptionsFile, "option", ref.Option)
			continue
		}
		if _, dup := seen[option]; dup {
			continue
		}
		seen[option] = struct{}{}

		pool := strings.ToLower(strings.TrimSpace(ref.Pool))
		if pool != "" && (!common.IsHexAddress(pool) || pool == entity.ZeroAddress) {
			l.logger.Warn("Option has invalid pool address in file, treating as poolless.", "option", option, "pool", ref.Pool)
			pool = ""
		}
		refs = append(refs, port.OptionRef{Option: option, Pool: pool})
	}

	l.logger.Info("Loaded option list for network", "network_identifier", networkDefinition.Identifier, "count", len(refs))
	return refs, nil
}
