package config

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/model"
)

type Config struct {
	RunAddr            string        `env:"RUN_ADDRESS"          envDefault:"localhost:8080"`
	RPCEndpoint        string        `env:"RPC_ENDPOINT"         envDefault:"https://rpc.berachain.com"`
	DistributorAddress string        `env:"DISTRIBUTOR_ADDRESS"  envDefault:"0x1d6Bbc466BBd0150a5E91BF337fa696A8f3Fa3D7"`
	MarketplaceAddr    string        `env:"MARKETPLACE_ADDRESS"  envDefault:"https://api.magicluck.xyz"`
	CollectionKey      string        `env:"COLLECTION_KEY"       envDefault:"yeet-nft"`
	PriceFeedAddr      string        `env:"PRICE_FEED_ADDRESS"   envDefault:"https://api.dexscreener.com"`
	RewardTokenAddress string        `env:"REWARD_TOKEN_ADDRESS" envDefault:"0x08A38Caa631DE329FF2DAD1656CE789F31AF3142"`
	ReadyThreshold     string        `env:"READY_THRESHOLD"      envDefault:"10000"`
	MaxConcurrentReads uint64        `env:"MAX_CONCURRENT_READS" envDefault:"8"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT"         envDefault:"5s"`
	RetryAttempts      uint64        `env:"RETRY_ATTEMPTS"       envDefault:"3"`
	LogLevel           string        `env:"LOG_LEVEL"            envDefault:"info"`
}

type Builder struct {
	cfg *Config
	log *slog.Logger
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		cfg: &Config{},
		log: log,
	}
}

func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse config", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) FromFlags() *Builder {
	flag.StringVar(&b.cfg.RunAddr, "a", b.cfg.RunAddr, "Run address")
	flag.StringVar(&b.cfg.RPCEndpoint, "rpc", b.cfg.RPCEndpoint, "Chain RPC endpoint")
	flag.StringVar(&b.cfg.DistributorAddress, "contract", b.cfg.DistributorAddress, "Airdrop distributor contract address")
	flag.StringVar(&b.cfg.MarketplaceAddr, "market", b.cfg.MarketplaceAddr, "Marketplace API base URL")
	flag.StringVar(&b.cfg.CollectionKey, "collection", b.cfg.CollectionKey, "Marketplace collection key")
	flag.StringVar(&b.cfg.PriceFeedAddr, "pricefeed", b.cfg.PriceFeedAddr, "Price feed API base URL")
	flag.StringVar(&b.cfg.RewardTokenAddress, "token", b.cfg.RewardTokenAddress, "Reward token address")
	flag.StringVar(&b.cfg.ReadyThreshold, "threshold", b.cfg.ReadyThreshold, "Ready-to-claim threshold")
	flag.Uint64Var(&b.cfg.MaxConcurrentReads, "c", b.cfg.MaxConcurrentReads, "Max concurrent chain reads")
	flag.DurationVar(&b.cfg.ReadTimeout, "t", b.cfg.ReadTimeout, "Per-call read timeout")
	flag.Uint64Var(&b.cfg.RetryAttempts, "retries", b.cfg.RetryAttempts, "Retry attempts for transient chain errors")
	flag.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level")

	flag.Parse()
	return b
}

func (b *Builder) GetConfig() *Config {
	return b.cfg
}
