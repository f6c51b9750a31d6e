package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/omni/bridge-orchestrator/bridge"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	defaultMaxBlockRangeSize     = 1000
	defaultActionChannelCapacity = 1000
	defaultBatchChannelCapacity  = 100
	defaultNativeQueryLimit      = 50
	defaultAlertThreshold        = 30 * time.Minute
)

var ErrInvalidConfig = errors.New("invalid config")

type RPCConfig struct {
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout"`
}

type ChainConfig struct {
	RPC                *RPCConfig    `yaml:"rpc"`
	ChainID            string        `yaml:"chain_id"`
	BlockTime          time.Duration `yaml:"block_time"`
	BlockIndexInterval time.Duration `yaml:"block_index_interval"`
	SafeLogsRequest    bool          `yaml:"safe_logs_request"`
}

type NativeConfig struct {
	ChainName            string         `yaml:"chain"`
	Chain                *ChainConfig   `yaml:"-"`
	BridgeChainName      string         `yaml:"bridge_chain_id"`
	BridgeChainID        bridge.ChainID `yaml:"-"`
	PackageID            string         `yaml:"package_id"`
	Modules              []string       `yaml:"modules"`
	QueryLimit           uint           `yaml:"query_limit"`
	EventChannelCapacity int            `yaml:"event_channel_capacity"`
}

type ContractConfig struct {
	Address    common.Address `yaml:"address"`
	StartBlock uint           `yaml:"start_block"`
}

type EVMConfig struct {
	ChainName          string           `yaml:"chain"`
	Chain              *ChainConfig     `yaml:"-"`
	BridgeChainName    string           `yaml:"bridge_chain_id"`
	BridgeChainID      bridge.ChainID   `yaml:"-"`
	Contracts          []ContractConfig `yaml:"contracts"`
	BlockConfirmations uint             `yaml:"required_block_confirmations"`
	MaxBlockRangeSize  uint             `yaml:"max_block_range_size"`
	LogChannelCapacity int              `yaml:"log_channel_capacity"`
}

type OrchestratorConfig struct {
	ActionChannelCapacity int `yaml:"action_channel_capacity"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       string `yaml:"database"`
	Path     string `yaml:"path"`
}

type AlertConfig struct {
	Threshold time.Duration `yaml:"threshold"`
}

type PresenterConfig struct {
	Host string `yaml:"host"`
}

type Config struct {
	Chains       map[string]*ChainConfig `yaml:"chains"`
	Native       *NativeConfig           `yaml:"native"`
	EVM          *EVMConfig              `yaml:"evm"`
	Orchestrator *OrchestratorConfig     `yaml:"orchestrator"`
	DBConfig     *DBConfig               `yaml:"postgres"`
	LogLevel     logrus.Level            `yaml:"log_level"`
	Presenter    *PresenterConfig        `yaml:"presenter"`
	Alerts       map[string]*AlertConfig `yaml:"alerts"`
}

func resolveChain(cfg *Config, name string) (*ChainConfig, error) {
	chain, ok := cfg.Chains[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chain %q", ErrInvalidConfig, name)
	}
	return chain, nil
}

func processConfig(cfg *Config) error {
	var err error
	if cfg.Native != nil {
		if cfg.Native.Chain, err = resolveChain(cfg, cfg.Native.ChainName); err != nil {
			return err
		}
		if cfg.Native.BridgeChainID, err = bridge.ParseChainID(cfg.Native.BridgeChainName); err != nil {
			return fmt.Errorf("%w: native: %v", ErrInvalidConfig, err)
		}
		if !cfg.Native.BridgeChainID.IsNative() {
			return fmt.Errorf("%w: native bridge chain %s is not a native chain", ErrInvalidConfig, cfg.Native.BridgeChainID)
		}
		if cfg.Native.QueryLimit == 0 {
			cfg.Native.QueryLimit = defaultNativeQueryLimit
		}
		if cfg.Native.EventChannelCapacity == 0 {
			cfg.Native.EventChannelCapacity = defaultBatchChannelCapacity
		}
	}
	if cfg.EVM != nil {
		if cfg.EVM.Chain, err = resolveChain(cfg, cfg.EVM.ChainName); err != nil {
			return err
		}
		if cfg.EVM.BridgeChainID, err = bridge.ParseChainID(cfg.EVM.BridgeChainName); err != nil {
			return fmt.Errorf("%w: evm: %v", ErrInvalidConfig, err)
		}
		if cfg.EVM.BridgeChainID.IsNative() {
			return fmt.Errorf("%w: evm bridge chain %s is a native chain", ErrInvalidConfig, cfg.EVM.BridgeChainID)
		}
		if cfg.EVM.MaxBlockRangeSize == 0 {
			cfg.EVM.MaxBlockRangeSize = defaultMaxBlockRangeSize
		}
		if cfg.EVM.LogChannelCapacity == 0 {
			cfg.EVM.LogChannelCapacity = defaultBatchChannelCapacity
		}
	}
	if cfg.Native != nil && cfg.EVM != nil && !bridge.IsRouteValid(cfg.Native.BridgeChainID, cfg.EVM.BridgeChainID) {
		return fmt.Errorf("%w: route %s <-> %s is not allowed", ErrInvalidConfig, cfg.Native.BridgeChainID, cfg.EVM.BridgeChainID)
	}
	if cfg.Orchestrator == nil {
		cfg.Orchestrator = new(OrchestratorConfig)
	}
	if cfg.Orchestrator.ActionChannelCapacity == 0 {
		cfg.Orchestrator.ActionChannelCapacity = defaultActionChannelCapacity
	}
	for name, alertCfg := range cfg.Alerts {
		if alertCfg == nil {
			alertCfg = new(AlertConfig)
			cfg.Alerts[name] = alertCfg
		}
		if alertCfg.Threshold == 0 {
			alertCfg.Threshold = defaultAlertThreshold
		}
	}
	if cfg.DBConfig == nil {
		cfg.DBConfig = new(DBConfig)
	}
	if err = envconfig.Process("postgres", cfg.DBConfig); err != nil {
		return fmt.Errorf("can't process database env overrides: %w", err)
	}
	if cfg.DBConfig.Driver == "" {
		cfg.DBConfig.Driver = DriverPostgres
	}
	if cfg.DBConfig.Driver != DriverPostgres && cfg.DBConfig.Driver != DriverSQLite {
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, cfg.DBConfig.Driver)
	}
	return nil
}

func ReadConfig(blob []byte) (*Config, error) {
	cfg := new(Config)
	if err := readYamlConfig(cfg, blob); err != nil {
		return nil, err
	}
	if err := processConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfigWithEnv expands ${VAR} references before parsing.
func ReadConfigWithEnv(blob []byte) (*Config, error) {
	return ReadConfig([]byte(os.ExpandEnv(string(blob))))
}

func ReadConfigFromFile(path string) (*Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}
	return ReadConfigWithEnv(blob)
}
