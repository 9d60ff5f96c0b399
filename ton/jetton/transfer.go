package jetton

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/mariafchaparro/tma-test/address"
	"github.com/mariafchaparro/tma-test/tlb"
	"github.com/mariafchaparro/tma-test/tvm/cell"
)

const OpTransfer = 0x0f8a7ea5

// USDTDecimals is the number of decimal places of USD₮ on TON.
const USDTDecimals = 6

// MaxCommentLen keeps comment in a single cell, so payload fits small BOC.
const MaxCommentLen = (cell.MaxBits - 32) / 8

var ErrInvalidAmount = tlb.ErrInvalidAmount

var ErrCommentTooLong = errors.New("comment is too long")

// TransferPayload is a body of internal message to sender's jetton wallet.
type TransferPayload struct {
	QueryID             uint64
	Amount              tlb.Coins
	Destination         *address.Address
	ResponseDestination *address.Address
	CustomPayload       *cell.Cell
	ForwardTONAmount    tlb.Coins
	// ForwardPayload is stored as a ref, nil means empty payload in place.
	ForwardPayload      *cell.Cell
}

func (p TransferPayload) ToCell() (*cell.Cell, error) {
	b := cell.BeginCell()

	if err := b.StoreUInt(OpTransfer, 32); err != nil {
		return nil, fmt.Errorf("failed to store op: %w", err)
	}
	if err := b.StoreUInt(p.QueryID, 64); err != nil {
		return nil, fmt.Errorf("failed to store query id: %w", err)
	}
	if err := b.StoreBigCoins(p.Amount.Nano()); err != nil {
		return nil, fmt.Errorf("failed to store amount: %w", err)
	}
	if err := b.StoreAddr(p.Destination); err != nil {
		return nil, fmt.Errorf("failed to store destination: %w", err)
	}
	if err := b.StoreAddr(p.ResponseDestination); err != nil {
		return nil, fmt.Errorf("failed to store response destination: %w", err)
	}
	if err := b.StoreMaybeRef(p.CustomPayload); err != nil {
		return nil, fmt.Errorf("failed to store custom payload: %w", err)
	}
	if err := b.StoreBigCoins(p.ForwardTONAmount.Nano()); err != nil {
		return nil, fmt.Errorf("failed to store forward amount: %w", err)
	}
	// either bit: 0 for payload in place, 1 for ref
	if err := b.StoreMaybeRef(p.ForwardPayload); err != nil {
		return nil, fmt.Errorf("failed to store forward payload: %w", err)
	}

	return b.EndCell()
}

// LoadFromCell reads transfer body, decimals of amount are taken from p.Amount.
func (p *TransferPayload) LoadFromCell(s *cell.Slice) error {
	op, err := s.LoadUInt(32)
	if err != nil {
		return fmt.Errorf("failed to load op: %w", err)
	}
	if op != OpTransfer {
		return fmt.Errorf("unexpected op %x", op)
	}

	if p.QueryID, err = s.LoadUInt(64); err != nil {
		return fmt.Errorf("failed to load query id: %w", err)
	}

	amount, err := s.LoadBigCoins()
	if err != nil {
		return fmt.Errorf("failed to load amount: %w", err)
	}
	if p.Amount, err = tlb.FromNano(amount, p.Amount.Decimals()); err != nil {
		return err
	}

	if p.Destination, err = s.LoadAddr(); err != nil {
		return fmt.Errorf("failed to load destination: %w", err)
	}
	if p.ResponseDestination, err = s.LoadAddr(); err != nil {
		return fmt.Errorf("failed to load response destination: %w", err)
	}

	custom, err := s.LoadBoolBit()
	if err != nil {
		return fmt.Errorf("failed to load custom payload bit: %w", err)
	}
	if custom {
		if p.CustomPayload, err = s.LoadRefCell(); err != nil {
			return fmt.Errorf("failed to load custom payload: %w", err)
		}
	}

	if err = p.ForwardTONAmount.LoadFromCell(s); err != nil {
		return fmt.Errorf("failed to load forward amount: %w", err)
	}

	isRef, err := s.LoadBoolBit()
	if err != nil {
		return fmt.Errorf("failed to load forward payload bit: %w", err)
	}
	if isRef {
		if p.ForwardPayload, err = s.LoadRefCell(); err != nil {
			return fmt.Errorf("failed to load forward payload: %w", err)
		}
	}

	return nil
}

type Option func(*PayloadBuilder)

// WithDecimals sets decimal places of the jetton, USDTDecimals by default.
func WithDecimals(decimals int) Option {
	return func(b *PayloadBuilder) {
		b.decimals = decimals
	}
}

// WithForwardAmount sets nanoTON attached to transfer notification, 1 by default.
func WithForwardAmount(amount tlb.Coins) Option {
	return func(b *PayloadBuilder) {
		b.forwardAmount = amount
	}
}

// WithClock replaces time source used for query id.
func WithClock(now func() time.Time) Option {
	return func(b *PayloadBuilder) {
		b.now = now
	}
}

// PayloadBuilder makes base64 BOC of transfer body for TON Connect.
// It is not changed after creation and can be used concurrently.
type PayloadBuilder struct {
	decimals      int
	forwardAmount tlb.Coins
	now           func() time.Time
}

func NewPayloadBuilder(opts ...Option) *PayloadBuilder {
	b := &PayloadBuilder{
		decimals:      USDTDecimals,
		forwardAmount: tlb.FromNanoTONU(1),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *PayloadBuilder) Decimals() int {
	return b.decimals
}

// Payload validates input and returns transfer body cell.
// Amount is human readable, for example "1.5" is 1500000 minimal units of USD₮.
func (b *PayloadBuilder) Payload(destination, amount, sender string) (*cell.Cell, error) {
	return b.payload(destination, amount, sender, nil)
}

// PayloadWithComment is Payload with text comment forwarded to the recipient.
func (b *PayloadBuilder) PayloadWithComment(destination, amount, sender, comment string) (*cell.Cell, error) {
	if len(comment) > MaxCommentLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrCommentTooLong, len(comment))
	}
	return b.payload(destination, amount, sender, &tlb.Comment{Value: comment})
}

// ParseAmount converts human readable amount to minimal units, it must be positive.
func (b *PayloadBuilder) ParseAmount(amount string) (tlb.Coins, error) {
	coins, err := tlb.FromDecimal(amount, b.decimals)
	if err != nil {
		return tlb.Coins{}, err
	}
	if !coins.IsPositive() {
		return tlb.Coins{}, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, amount)
	}
	return coins, nil
}

func (b *PayloadBuilder) payload(destination, amount, sender string, comment *tlb.Comment) (*cell.Cell, error) {
	coins, err := b.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	to, err := address.ParseAddr(destination)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	from, err := address.ParseAddr(sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	var forward *cell.Cell
	if comment != nil {
		if forward, err = comment.ToCell(); err != nil {
			return nil, fmt.Errorf("failed to build comment: %w", err)
		}
	}

	return TransferPayload{
		QueryID:             uint64(b.now().UnixMilli()),
		Amount:              coins,
		Destination:         to,
		ResponseDestination: from,
		ForwardTONAmount:    b.forwardAmount,
		ForwardPayload:      forward,
	}.ToCell()
}

func (b *PayloadBuilder) Build(destination, amount, sender string) (string, error) {
	c, err := b.Payload(destination, amount, sender)
	if err != nil {
		return "", err
	}
	return EncodePayload(c)
}

// EncodePayload returns base64 of BOC with crc32c, the form TON Connect accepts as message payload.
func EncodePayload(c *cell.Cell) (string, error) {
	boc, err := c.ToBOC()
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(boc), nil
}

var defaultBuilder = NewPayloadBuilder()

// BuildTransferPayload returns base64 BOC of USD₮ transfer with current time as query id.
func BuildTransferPayload(destination, amount, sender string) (string, error) {
	return defaultBuilder.Build(destination, amount, sender)
}
