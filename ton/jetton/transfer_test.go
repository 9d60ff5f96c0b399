package jetton

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mariafchaparro/tma-test/address"
	"github.com/mariafchaparro/tma-test/tlb"
	"github.com/mariafchaparro/tma-test/tvm/boc"
	"github.com/mariafchaparro/tma-test/tvm/cell"
)

const (
	usdtMaster = "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"
	senderAddr = "UQCTDVUzmAq6EfzYGEWpVOv16yo-H5Vw3B0rktcidz_ULLjm"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func TestPayloadBuilder_Build(t *testing.T) {
	b := NewPayloadBuilder(WithClock(fixedClock))

	payload, err := b.Build(usdtMaster, "1.5", senderAddr)
	if err != nil {
		t.Fatal(err)
	}

	want := "te6cckEBAQEAVgAAqA+KfqUAAAGLz+VoADFuNggBYidTKWoElCzjPtInJlHW6ysthxRL6yBRYo39m4bEO/0AJMNVTOYCroR/NgYRalU6/XrKj4flXDcHSuS1yJ3P9QsCAprKPEc="
	if payload != want {
		t.Fatalf("incorrect payload:\n%s\n%s", payload, want)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, boc.Magic) {
		t.Fatalf("no boc magic %x", data[:4])
	}
	if len(data) != 17+84 {
		t.Fatal("incorrect boc len", len(data))
	}
}

func TestPayloadBuilder_Payload(t *testing.T) {
	b := NewPayloadBuilder(WithClock(fixedClock))

	c, err := b.Payload(usdtMaster, "1.5", senderAddr)
	if err != nil {
		t.Fatal(err)
	}

	if c.BitsSize() != 672 || c.RefsNum() != 0 {
		t.Fatalf("incorrect cell layout %d bits %d refs", c.BitsSize(), c.RefsNum())
	}

	if op := c.BeginParse().MustLoadUInt(32); op != OpTransfer {
		t.Fatalf("incorrect op %x", op)
	}

	p := TransferPayload{Amount: tlb.MustFromDecimal("0", USDTDecimals)}
	if err = p.LoadFromCell(c.BeginParse()); err != nil {
		t.Fatal(err)
	}

	if p.QueryID != 1700000000000 {
		t.Fatal("incorrect query id", p.QueryID)
	}
	if p.Amount.Nano().Uint64() != 1500000 || p.Amount.String() != "1.5" {
		t.Fatal("incorrect amount", p.Amount.Nano())
	}
	if !p.Destination.Equals(address.MustParseAddr(usdtMaster)) {
		t.Fatal("incorrect destination", p.Destination)
	}
	if !p.ResponseDestination.Equals(address.MustParseAddr(senderAddr)) {
		t.Fatal("incorrect response destination", p.ResponseDestination)
	}
	if p.CustomPayload != nil || p.ForwardPayload != nil {
		t.Fatal("payloads should be empty")
	}
	if p.ForwardTONAmount.Nano().Uint64() != 1 {
		t.Fatal("incorrect forward amount", p.ForwardTONAmount.Nano())
	}
}

func TestPayloadBuilder_Amounts(t *testing.T) {
	tests := []struct {
		amount string
		want   uint64
	}{
		{"1.5", 1500000},
		{"1", 1000000},
		{"0.000001", 1},
		{"0.0000005", 1},
		{"10.1234567", 10123457},
		{"1000000", 1000000000000},
	}

	b := NewPayloadBuilder(WithClock(fixedClock))
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			c, err := b.Payload(usdtMaster, tt.amount, senderAddr)
			if err != nil {
				t.Fatal(err)
			}

			s := c.BeginParse()
			s.MustLoadUInt(32)
			s.MustLoadUInt(64)
			if got := s.MustLoadCoins(); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPayloadBuilder_InvalidAmount(t *testing.T) {
	b := NewPayloadBuilder()

	for _, amount := range []string{"0", "-3", "abc", "", "0.0000004", "NaN", "1e40", "1e20000000", "1e-2000000"} {
		t.Run(amount, func(t *testing.T) {
			if _, err := b.Build(usdtMaster, amount, senderAddr); !errors.Is(err, ErrInvalidAmount) {
				t.Fatal("should be invalid amount, got", err)
			}
		})
	}

	// amount is checked before addresses
	if _, err := b.Build("bad", "-1", "bad"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatal("should be invalid amount, got", err)
	}
}

func TestPayloadBuilder_ParseAmount(t *testing.T) {
	b := NewPayloadBuilder()

	coins, err := b.ParseAmount(" 1.5 ")
	if err != nil {
		t.Fatal(err)
	}
	if coins.Nano().Uint64() != 1500000 {
		t.Fatal("incorrect amount", coins.Nano())
	}

	if _, err = b.ParseAmount("0.0000001"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatal("rounded to zero should be invalid, got", err)
	}
}

func TestPayloadBuilder_InvalidAddress(t *testing.T) {
	b := NewPayloadBuilder()

	tests := []struct {
		name   string
		dest   string
		sender string
	}{
		{"bad dest checksum", "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDt", senderAddr},
		{"bad sender", usdtMaster, "hello"},
		{"short", "EQCxE6mU", senderAddr},
		{"raw dest", "0:b113a994b5024a16719f69139328eb759596c38a25f59028b146fecdc3621dfe", senderAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.dest, "1", tt.sender)
			if !errors.Is(err, address.ErrInvalidAddress) {
				t.Fatal("should be invalid address, got", err)
			}
		})
	}
}

func TestPayloadBuilder_Options(t *testing.T) {
	b := NewPayloadBuilder(
		WithClock(fixedClock),
		WithDecimals(9),
		WithForwardAmount(tlb.MustFromTON("0.05")),
	)
	if b.Decimals() != 9 {
		t.Fatal("incorrect decimals", b.Decimals())
	}

	c, err := b.Payload(usdtMaster, "2", senderAddr)
	if err != nil {
		t.Fatal(err)
	}

	p := TransferPayload{Amount: tlb.MustFromTON("0")}
	if err = p.LoadFromCell(c.BeginParse()); err != nil {
		t.Fatal(err)
	}
	if p.Amount.Nano().Uint64() != 2_000_000_000 {
		t.Fatal("incorrect amount", p.Amount.Nano())
	}
	if p.ForwardTONAmount.Nano().Uint64() != 50_000_000 {
		t.Fatal("incorrect forward amount", p.ForwardTONAmount.Nano())
	}
}

func TestBuildTransferPayload(t *testing.T) {
	payload, err := BuildTransferPayload(usdtMaster, "1.5", senderAddr)
	if err != nil {
		t.Fatal(err)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xb5, 0xee, 0x9c, 0x72}) {
		t.Fatalf("no boc magic %x", data[:4])
	}
}

func TestTransferPayload_Refs(t *testing.T) {
	comment := cell.BeginCell().MustStoreUInt(0, 32).MustStoreSlice([]byte("order 42"), 64).MustEndCell()
	custom := cell.BeginCell().MustStoreUInt(7, 8).MustEndCell()

	c, err := TransferPayload{
		QueryID:          1,
		Amount:           tlb.MustFromDecimal("3", USDTDecimals),
		Destination:      address.MustParseAddr(usdtMaster),
		CustomPayload:    custom,
		ForwardTONAmount: tlb.MustFromTON("0.01"),
		ForwardPayload:   comment,
	}.ToCell()
	if err != nil {
		t.Fatal(err)
	}

	if c.RefsNum() != 2 {
		t.Fatal("should have 2 refs, got", c.RefsNum())
	}

	var p TransferPayload
	if err = p.LoadFromCell(c.BeginParse()); err != nil {
		t.Fatal(err)
	}
	if p.ResponseDestination != nil {
		t.Fatal("response destination should be addr_none")
	}
	if p.CustomPayload == nil || p.CustomPayload.BeginParse().MustLoadUInt(8) != 7 {
		t.Fatal("incorrect custom payload")
	}

	fwd := p.ForwardPayload.BeginParse()
	if fwd.MustLoadUInt(32) != 0 || string(fwd.MustLoadSlice(64)) != "order 42" {
		t.Fatal("incorrect forward payload")
	}

	payload, err := EncodePayload(c)
	if err != nil {
		t.Fatal(err)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}
	// root and 2 refs
	if data[6] != 3 {
		t.Fatal("incorrect cells num", data[6])
	}
}

func TestPayloadBuilder_PayloadWithComment(t *testing.T) {
	b := NewPayloadBuilder(WithClock(fixedClock))

	c, err := b.PayloadWithComment(usdtMaster, "1.5", senderAddr, "order 42")
	if err != nil {
		t.Fatal(err)
	}
	if c.BitsSize() != 672 || c.RefsNum() != 1 {
		t.Fatalf("incorrect cell layout %d bits %d refs", c.BitsSize(), c.RefsNum())
	}

	var p TransferPayload
	if err = p.LoadFromCell(c.BeginParse()); err != nil {
		t.Fatal(err)
	}

	var comment tlb.Comment
	if err = comment.LoadFromCell(p.ForwardPayload.BeginParse()); err != nil {
		t.Fatal(err)
	}
	if comment.Value != "order 42" {
		t.Fatal("incorrect comment", comment.Value)
	}

	long := strings.Repeat("x", MaxCommentLen)
	if c, err = b.PayloadWithComment(usdtMaster, "1.5", senderAddr, long); err != nil {
		t.Fatal(err)
	}
	if _, err = EncodePayload(c); err != nil {
		t.Fatal("longest comment should fit boc:", err)
	}

	if _, err = b.PayloadWithComment(usdtMaster, "1.5", senderAddr, long+"x"); !errors.Is(err, ErrCommentTooLong) {
		t.Fatal("should be too long, got", err)
	}
}
