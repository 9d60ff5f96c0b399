package config

import (
	"reflect"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/mariafchaparro/tma-test/address"
	"github.com/mariafchaparro/tma-test/tlb"
)

// USDTMaster is the USD₮ jetton master on mainnet.
const USDTMaster = "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"

type Config struct {
	API struct {
		Port int `env:"PORT" envDefault:"8080"`
	}
	App struct {
		LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
	}
	Jetton struct {
		Master        address.Address `env:"JETTON_MASTER" envDefault:"EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"`
		Decimals      int             `env:"JETTON_DECIMALS" envDefault:"6"`
		ForwardAmount uint64          `env:"FORWARD_AMOUNT" envDefault:"1"`
	}
	Transaction struct {
		// GasAmount is attached to the message to sender's jetton wallet, in TON.
		GasAmount tlb.Coins     `env:"GAS_AMOUNT" envDefault:"0.1"`
		ValidFor  time.Duration `env:"VALID_FOR" envDefault:"6m"`
	}
}

var parsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(address.Address{}): func(v string) (interface{}, error) {
		a, err := address.ParseAddr(v)
		if err != nil {
			return nil, err
		}
		return *a, nil
	},
	reflect.TypeOf(tlb.Coins{}): func(v string) (interface{}, error) {
		return tlb.FromTON(v)
	},
}

// Load reads .env file if present and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := env.ParseWithFuncs(&c, parsers); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return errors.Errorf("port %d out of range", c.API.Port)
	}
	if _, err := zapcore.ParseLevel(c.App.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	if c.Jetton.Decimals < 0 || c.Jetton.Decimals > 18 {
		return errors.Errorf("jetton decimals %d out of range", c.Jetton.Decimals)
	}
	if !c.Transaction.GasAmount.IsPositive() {
		return errors.New("gas amount should be positive")
	}
	if c.Transaction.ValidFor <= 0 {
		return errors.New("valid for should be positive")
	}
	return nil
}
