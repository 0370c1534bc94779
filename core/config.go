package core

import (
	"fmt"
	"strings"
)

type FeesConfig struct {
	DefaultFee uint32 `koanf:"default_fee" mapstructure:"default_fee"`
	Method     string `koanf:"method" mapstructure:"method"`
}

type Config struct {
	AdapterName     string     `koanf:"adapter_name" mapstructure:"adapter_name"`
	MaxHooksPerPool int        `koanf:"max_hooks_per_pool" mapstructure:"max_hooks_per_pool"`
	Fees            FeesConfig `koanf:"fees" mapstructure:"fees"`
}

func DefaultConfig() Config {
	return Config{
		AdapterName:     "multihook",
		MaxHooksPerPool: 16,
		Fees: FeesConfig{
			DefaultFee: 3000,
			Method:     FeeMethodWeightedAverage.String(),
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.AdapterName) == "" {
		return fmt.Errorf("core: adapter_name is required")
	}
	if c.MaxHooksPerPool <= 0 {
		return fmt.Errorf("core: max_hooks_per_pool must be positive")
	}
	if c.Fees.DefaultFee == 0 || c.Fees.DefaultFee > MaxFee {
		return fmt.Errorf("core: fees.default_fee must be in [1, %d]", MaxFee)
	}
	if _, err := ParseFeeMethod(strings.TrimSpace(c.Fees.Method)); err != nil {
		return err
	}
	return nil
}

// FeeDefaults projects the configured fallback into a per-pool FeeConfig
// for pools without a persisted record.
func (c Config) FeeDefaults() FeeConfig {
	method, err := ParseFeeMethod(strings.TrimSpace(c.Fees.Method))
	if err != nil {
		method = FeeMethodWeightedAverage
	}
	return FeeConfig{
		Method:     method,
		DefaultFee: c.Fees.DefaultFee,
	}
}
