package tlb

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mariafchaparro/tma-test/tvm/cell"
)

var ErrInvalidAmount = errors.New("invalid amount")

// coins are stored as VarUInteger 16, so value must fit into 15 bytes
const maxCoinsBits = 120

const (
	// 10^37 is already bigger than 2^120
	maxCoinsDigits    = 37
	minAmountExponent = -64
)

type Coins struct {
	decimals int
	val      *big.Int
}

var ZeroCoins = MustFromTON("0")

func (g Coins) String() string {
	return g.Decimal().String()
}

// Decimal returns human readable value, for example 1.5 for 1500000 with 6 decimals.
func (g Coins) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(g.Nano(), -int32(g.decimals))
}

func (g Coins) Nano() *big.Int {
	if g.val == nil {
		return big.NewInt(0)
	}
	return g.val
}

func (g Coins) Decimals() int {
	return g.decimals
}

func (g Coins) IsPositive() bool {
	return g.Nano().Sign() > 0
}

func MustFromDecimal(val string, decimals int) Coins {
	v, err := FromDecimal(val, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

func MustFromTON(val string) Coins {
	v, err := FromTON(val)
	if err != nil {
		panic(err)
	}
	return v
}

func MustFromNano(val *big.Int, decimals int) Coins {
	v, err := FromNano(val, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

func FromNano(val *big.Int, decimals int) (Coins, error) {
	if val.Sign() < 0 {
		return Coins{}, fmt.Errorf("%w: negative", ErrInvalidAmount)
	}
	if val.BitLen() > maxCoinsBits {
		return Coins{}, fmt.Errorf("%w: too big number for coins", ErrInvalidAmount)
	}

	return Coins{
		decimals: decimals,
		val:      new(big.Int).Set(val),
	}, nil
}

func FromNanoTONU(val uint64) Coins {
	return Coins{
		decimals: 9,
		val:      new(big.Int).SetUint64(val),
	}
}

func FromTON(val string) (Coins, error) {
	return FromDecimal(val, 9)
}

// FromDecimal converts human readable amount to minimal units.
// Digits after the last supported decimal place are rounded half away from zero.
func FromDecimal(val string, decimals int) (Coins, error) {
	if decimals < 0 || decimals >= 128 {
		return Coins{}, fmt.Errorf("invalid decimals %d", decimals)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(val))
	if err != nil {
		return Coins{}, fmt.Errorf("%w: %q", ErrInvalidAmount, val)
	}
	if d.IsNegative() {
		return Coins{}, fmt.Errorf("%w: negative %q", ErrInvalidAmount, val)
	}

	// exponent is checked before shifting, rescale allocates 10^exp
	exp := int64(d.Exponent())
	if exp+int64(decimals) > maxCoinsDigits || exp < minAmountExponent {
		return Coins{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, val)
	}

	return FromNano(d.Shift(int32(decimals)).Round(0).BigInt(), decimals)
}

func (g *Coins) LoadFromCell(loader *cell.Slice) error {
	coins, err := loader.LoadBigCoins()
	if err != nil {
		return err
	}
	g.val = coins
	return nil
}

func (g Coins) ToCell() (*cell.Cell, error) {
	return cell.BeginCell().MustStoreBigCoins(g.Nano()).EndCell()
}

func (g Coins) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", g.Nano().String())), nil
}

// UnmarshalJSON reads quoted amount in nanoTON.
func (g *Coins) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: not a string", ErrInvalidAmount)
	}

	v, ok := new(big.Int).SetString(string(data[1:len(data)-1]), 10)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}

	c, err := FromNano(v, 9)
	if err != nil {
		return err
	}
	*g = c
	return nil
}
