package payment

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mariafchaparro/tma-test/address"
	"github.com/mariafchaparro/tma-test/internal/config"
	"github.com/mariafchaparro/tma-test/internal/metrics"
	"github.com/mariafchaparro/tma-test/tlb"
	"github.com/mariafchaparro/tma-test/ton/jetton"
)

// Message is a single message of TON Connect sendTransaction request.
type Message struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Payload string `json:"payload,omitempty"`
}

type Transaction struct {
	ValidUntil int64     `json:"validUntil"`
	Messages   []Message `json:"messages"`
}

type TransferRequest struct {
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Sender      string `json:"sender"`
	// Comment is optional text forwarded to the recipient.
	Comment     string `json:"comment,omitempty"`
}

type TransferResult struct {
	Payload     string      `json:"payload"`
	Transaction Transaction `json:"transaction"`
	Link        string      `json:"link"`
}

type AddressInfo struct {
	Address    string `json:"address"`
	Raw        string `json:"raw"`
	Workchain  int32  `json:"workchain"`
	Bounceable bool   `json:"bounceable"`
	Testnet    bool   `json:"testnet"`
	Short      string `json:"short"`
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service prepares jetton transfers to be signed by user's wallet.
type Service struct {
	builder  *jetton.PayloadBuilder
	master   *address.Address
	gas      tlb.Coins
	validFor time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewService(cfg config.Config, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		master:   cfg.Jetton.Master.Copy(),
		gas:      cfg.Transaction.GasAmount,
		validFor: cfg.Transaction.ValidFor,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.builder = jetton.NewPayloadBuilder(
		jetton.WithDecimals(cfg.Jetton.Decimals),
		jetton.WithForwardAmount(tlb.FromNanoTONU(cfg.Jetton.ForwardAmount)),
		jetton.WithClock(s.now),
	)
	return s
}

// Transfer builds payload and wraps it into transaction request.
// Sender can be in raw form, as TON Connect reports connected account.
func (s *Service) Transfer(req TransferRequest) (TransferResult, error) {
	if _, err := s.builder.ParseAmount(req.Amount); err != nil {
		metrics.PayloadsBuilt.WithLabelValues(metrics.ResultInvalidAmount).Inc()
		return TransferResult{}, errors.Wrap(err, "failed to parse amount")
	}

	sender, err := ParseAnyAddr(req.Sender)
	if err != nil {
		metrics.PayloadsBuilt.WithLabelValues(metrics.ResultInvalidAddress).Inc()
		return TransferResult{}, errors.Wrap(err, "failed to parse sender")
	}

	payload, err := s.payload(strings.TrimSpace(req.Destination), req.Amount, sender.String(), req.Comment)
	if err != nil {
		metrics.PayloadsBuilt.WithLabelValues(resultLabel(err)).Inc()
		return TransferResult{}, errors.Wrap(err, "failed to build transfer payload")
	}
	metrics.PayloadsBuilt.WithLabelValues(metrics.ResultOK).Inc()

	s.log.Debug("transfer payload built",
		zap.String("destination", req.Destination),
		zap.String("amount", req.Amount),
		zap.String("sender", sender.String()),
	)

	msg := Message{
		Address: s.master.String(),
		Amount:  s.gas.Nano().String(),
		Payload: payload,
	}
	validUntil := s.now().Add(s.validFor).Unix()

	return TransferResult{
		Payload: payload,
		Transaction: Transaction{
			ValidUntil: validUntil,
			Messages:   []Message{msg},
		},
		Link: TransferLink(msg, validUntil),
	}, nil
}

func (s *Service) payload(destination, amount, sender, comment string) (string, error) {
	if comment == "" {
		return s.builder.Build(destination, amount, sender)
	}

	c, err := s.builder.PayloadWithComment(destination, amount, sender, comment)
	if err != nil {
		return "", err
	}
	return jetton.EncodePayload(c)
}

func (s *Service) Address(addr string) (AddressInfo, error) {
	a, err := ParseAnyAddr(addr)
	if err != nil {
		return AddressInfo{}, err
	}

	return AddressInfo{
		Address:    a.String(),
		Raw:        a.StringRaw(),
		Workchain:  a.Workchain(),
		Bounceable: a.IsBounceable(),
		Testnet:    a.IsTestnetOnly(),
		Short:      a.Short(),
	}, nil
}

// ParseAnyAddr accepts user-friendly and raw forms.
func ParseAnyAddr(addr string) (*address.Address, error) {
	addr = strings.TrimSpace(addr)
	if strings.Contains(addr, ":") {
		return address.ParseRawAddr(addr)
	}
	return address.ParseAddr(addr)
}

// IsUserError reports whether err is caused by request data.
func IsUserError(err error) bool {
	return errors.Is(err, address.ErrInvalidAddress) ||
		errors.Is(err, jetton.ErrInvalidAmount) ||
		errors.Is(err, jetton.ErrCommentTooLong)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, jetton.ErrInvalidAmount):
		return metrics.ResultInvalidAmount
	case errors.Is(err, address.ErrInvalidAddress):
		return metrics.ResultInvalidAddress
	case errors.Is(err, jetton.ErrCommentTooLong):
		return metrics.ResultCommentTooLong
	default:
		return metrics.ResultSerializeFailed
	}
}
