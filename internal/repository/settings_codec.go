package repository

import (
	"encoding/json"
	"fmt"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// legacyKeys maps keys of the first settings format to their replacements.
var legacyKeys = map[string]string{
	model.LegacyKeyTWD: "bank_twd",
	model.LegacyKeyUSD: "bank_usd",
}

// DecodeSettings decodes a stored settings object over model.DefaultSettings, so keys
// missing from older files keep their defaults and unknown keys are ignored. The
// legacy "twd"/"usd" balances are copied into "bank_twd"/"bank_usd" when the new key
// is absent.
func DecodeSettings(data []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}

	for oldKey, newKey := range legacyKeys {
		value, ok := raw[oldKey]
		if !ok {
			continue
		}
		if _, ok := raw[newKey]; ok {
			continue
		}
		var amount float64
		if err := json.Unmarshal(value, &amount); err != nil {
			return model.Settings{}, fmt.Errorf("failed to decode legacy key %q: %w", oldKey, err)
		}
		switch newKey {
		case "bank_twd":
			settings.BankTWD = amount
		case "bank_usd":
			settings.BankUSD = amount
		}
	}

	return settings, nil
}

// EncodeSettings serializes settings as an indented JSON object.
func EncodeSettings(settings model.Settings) ([]byte, error) {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}
