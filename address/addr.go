package address

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sigurn/crc16"
)

// ErrInvalidAddress is returned (wrapped) for any address that fails decoding or validation.
var ErrInvalidAddress = errors.New("invalid address")

const (
	// user-friendly form: tag, workchain, 32 bytes hash, 2 bytes crc16
	friendlyLen = 36
	hashLen     = 32

	tagBounceable = 0x11
	bitNoBounce   = 6
	bitTestnet    = 7
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

type Address struct {
	flags     byte
	workchain int8
	data      []byte
}

func NewAddress(flags byte, workchain byte, data []byte) *Address {
	if len(data) != hashLen {
		panic(fmt.Sprintf("address hash should be %d bytes, got %d", hashLen, len(data)))
	}

	return &Address{
		flags:     flags,
		workchain: int8(workchain),
		data:      append([]byte{}, data...),
	}
}

func MustParseAddr(addr string) *Address {
	a, err := ParseAddr(addr)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAddr decodes the user-friendly 48 characters form, both url-safe and std alphabets are accepted.
func ParseAddr(addr string) (*Address, error) {
	s := strings.NewReplacer("-", "+", "_", "/").Replace(strings.TrimRight(addr, "="))
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64: %v", ErrInvalidAddress, err)
	}

	if len(data) != friendlyLen {
		return nil, fmt.Errorf("%w: incorrect length %d, should be %d", ErrInvalidAddress, len(data), friendlyLen)
	}

	got := binary.BigEndian.Uint16(data[friendlyLen-2:])
	if want := crc16.Checksum(data[:friendlyLen-2], crcTable); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch %04x, calculated %04x", ErrInvalidAddress, got, want)
	}

	return &Address{
		flags:     data[0],
		workchain: int8(data[1]),
		data:      append([]byte{}, data[2:2+hashLen]...),
	}, nil
}

func MustParseRawAddr(addr string) *Address {
	a, err := ParseRawAddr(addr)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseRawAddr decodes "workchain:hex" form, as reported by TON Connect wallets.
// Result is bounceable and not testnet-only.
func ParseRawAddr(addr string) (*Address, error) {
	wcStr, hashStr, ok := strings.Cut(addr, ":")
	if !ok {
		return nil, fmt.Errorf("%w: raw form should be workchain:hash", ErrInvalidAddress)
	}

	wc, err := strconv.ParseInt(wcStr, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse workchain: %v", ErrInvalidAddress, err)
	}

	data, err := hex.DecodeString(hashStr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode hash: %v", ErrInvalidAddress, err)
	}

	if len(data) != hashLen {
		return nil, fmt.Errorf("%w: incorrect hash length %d", ErrInvalidAddress, len(data))
	}

	return &Address{
		flags:     tagBounceable,
		workchain: int8(wc),
		data:      data,
	}, nil
}

func (a *Address) String() string {
	buf := make([]byte, friendlyLen)
	buf[0] = a.flags
	buf[1] = byte(a.workchain)
	copy(buf[2:], a.data)
	binary.BigEndian.PutUint16(buf[friendlyLen-2:], a.Checksum())

	return base64.URLEncoding.EncodeToString(buf)
}

// StringRaw returns "workchain:hex" form.
func (a *Address) StringRaw() string {
	return fmt.Sprintf("%d:%s", a.workchain, hex.EncodeToString(a.data))
}

// Short returns the form for compact display, like EQCxE6..._sDs.
func (a *Address) Short() string {
	s := a.String()
	return s[:6] + "..." + s[len(s)-4:]
}

func (a *Address) Checksum() uint16 {
	return crc16.Checksum(a.prepareChecksumData(), crcTable)
}

func (a *Address) prepareChecksumData() []byte {
	data := make([]byte, 0, friendlyLen-2)
	data = append(data, a.flags, byte(a.workchain))
	return append(data, a.data...)
}

func (a *Address) Dump() string {
	return fmt.Sprintf("human-readable address: %s isBounceable: %t, isTestnetOnly: %t, data.len: %d", a,
		a.IsBounceable(), a.IsTestnetOnly(), len(a.data))
}

func (a *Address) Flags() byte {
	return a.flags
}

func (a *Address) IsBounceable() bool {
	return !hasBit(a.flags, bitNoBounce)
}

func (a *Address) SetBounce(bouncable bool) {
	if bouncable {
		clearBit(&a.flags, bitNoBounce)
	} else {
		setBit(&a.flags, bitNoBounce)
	}
}

func (a *Address) IsTestnetOnly() bool {
	return hasBit(a.flags, bitTestnet)
}

func (a *Address) SetTestnetOnly(testnetOnly bool) {
	if testnetOnly {
		setBit(&a.flags, bitTestnet)
	} else {
		clearBit(&a.flags, bitTestnet)
	}
}

func (a *Address) Workchain() int32 {
	return int32(a.workchain)
}

func (a *Address) Data() []byte {
	return a.data
}

func (a *Address) Copy() *Address {
	return &Address{
		flags:     a.flags,
		workchain: a.workchain,
		data:      append([]byte{}, a.data...),
	}
}

func (a *Address) Equals(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.workchain == b.workchain && string(a.data) == string(b.data)
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	addr, err := ParseAddr(s)
	if err != nil {
		return err
	}

	*a = *addr
	return nil
}
