// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package relay

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the set of protocol parameters of the claim manager. Every field has a default value,
// custom networks may override any of them through a YAML file.
type Config struct {
	BattleReward        *big.Int // stake bonded by submitter and by each challenger
	MinProposalDeposit  *big.Int // free balance required to propose
	MinChallengeDeposit *big.Int // free balance required to challenge

	ProposalDelay    uint64 // seconds a superblock must age before it can be proposed
	ChallengeTimeout uint64 // seconds a claim stays open after its last challenge

	ConfirmationDepth     uint32 // semi-approved descendants needed to confirm an ancestor
	MaxConfirmationWalk   uint32 // max ancestor hops walked by a single confirmation
	MaxSettlementsPerCall uint32 // max challengers paid out by a single call
}

// DefaultConfig returns the parameters used by the main network.
func DefaultConfig() Config {
	return Config{
		BattleReward:          new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
		MinProposalDeposit:    new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
		MinChallengeDeposit:   new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)),
		ProposalDelay:         60 * 60 * 3, // 3 hours
		ChallengeTimeout:      60 * 10,     // 10 minutes
		ConfirmationDepth:     3,
		MaxConfirmationWalk:   64,
		MaxSettlementsPerCall: 32,
	}
}

// Validate checks the parameters are consistent with each other.
func (c *Config) Validate() error {
	if c.BattleReward == nil || c.BattleReward.Sign() <= 0 {
		return errors.New("battle reward must be positive")
	}
	if c.MinProposalDeposit == nil || c.MinProposalDeposit.Cmp(c.BattleReward) < 0 {
		return errors.New("min proposal deposit must cover the battle reward")
	}
	if c.MinChallengeDeposit == nil || c.MinChallengeDeposit.Cmp(c.BattleReward) < 0 {
		return errors.New("min challenge deposit must cover the battle reward")
	}
	if c.ChallengeTimeout == 0 {
		return errors.New("challenge timeout must be positive")
	}
	if c.ConfirmationDepth == 0 {
		return errors.New("confirmation depth must be positive")
	}
	if c.MaxConfirmationWalk < c.ConfirmationDepth {
		return errors.New("max confirmation walk must not be less than confirmation depth")
	}
	if c.MaxSettlementsPerCall == 0 {
		return errors.New("max settlements per call must be positive")
	}
	return nil
}

// fileConfig is the YAML presentation of Config. Amounts are decimal strings in wei.
type fileConfig struct {
	BattleReward          string `yaml:"battleReward"`
	MinProposalDeposit    string `yaml:"minProposalDeposit"`
	MinChallengeDeposit   string `yaml:"minChallengeDeposit"`
	ProposalDelay         uint64 `yaml:"proposalDelay"`
	ChallengeTimeout      uint64 `yaml:"challengeTimeout"`
	ConfirmationDepth     uint32 `yaml:"confirmationDepth"`
	MaxConfirmationWalk   uint32 `yaml:"maxConfirmationWalk"`
	MaxSettlementsPerCall uint32 `yaml:"maxSettlementsPerCall"`
}

// ParseConfig overrides the default config with the non-empty fields of the YAML document.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	cfg := DefaultConfig()
	for _, amount := range []struct {
		name  string
		value string
		dst   **big.Int
	}{
		{"battleReward", fc.BattleReward, &cfg.BattleReward},
		{"minProposalDeposit", fc.MinProposalDeposit, &cfg.MinProposalDeposit},
		{"minChallengeDeposit", fc.MinChallengeDeposit, &cfg.MinChallengeDeposit},
	} {
		if amount.value == "" {
			continue
		}
		v, ok := new(big.Int).SetString(amount.value, 10)
		if !ok {
			return Config{}, errors.Errorf("invalid %s: %q", amount.name, amount.value)
		}
		*amount.dst = v
	}

	if fc.ProposalDelay != 0 {
		cfg.ProposalDelay = fc.ProposalDelay
	}
	if fc.ChallengeTimeout != 0 {
		cfg.ChallengeTimeout = fc.ChallengeTimeout
	}
	if fc.ConfirmationDepth != 0 {
		cfg.ConfirmationDepth = fc.ConfirmationDepth
	}
	if fc.MaxConfirmationWalk != 0 {
		cfg.MaxConfirmationWalk = fc.MaxConfirmationWalk
	}
	if fc.MaxSettlementsPerCall != 0 {
		cfg.MaxSettlementsPerCall = fc.MaxSettlementsPerCall
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}
