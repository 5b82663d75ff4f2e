package types

import (
	"encoding/json"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ShieldedRecvMetadata carries the parameters of a shielded receive: the
// overflow address and the amount to deposit into the shielded pool.
type ShieldedRecvMetadata struct {
	// OverflowReceiver receives whatever exceeds TargetAmount.
	OverflowReceiver string `json:"overflow_receiver"`
	// TargetAmount is the portion routed to the shielded pool.
	TargetAmount sdkmath.Int `json:"target_amount"`
}

// PacketMetadata is the memo envelope of a shielded receive packet.
type PacketMetadata struct {
	ShieldedRecv *ShieldedRecvMetadata `json:"shielded_recv"`
}

// NewPacketMetadata builds the memo payload for a shielded receive of
// amount into the pool, with the surplus routed to receiver.
func NewPacketMetadata(receiver sdk.AccAddress, amount sdkmath.Int) PacketMetadata {
	return PacketMetadata{
		ShieldedRecv: &ShieldedRecvMetadata{
			OverflowReceiver: receiver.String(),
			TargetAmount:     amount,
		},
	}
}

// UnmarshalJSON accepts target_amount both as an integer string and as a
// bare JSON number. Serialization always emits the string form.
func (m *ShieldedRecvMetadata) UnmarshalJSON(bz []byte) error {
	var raw struct {
		OverflowReceiver string          `json:"overflow_receiver"`
		TargetAmount     json.RawMessage `json:"target_amount"`
	}
	if err := json.Unmarshal(bz, &raw); err != nil {
		return err
	}
	if len(raw.TargetAmount) == 0 {
		return errorsmod.Wrapf(ErrInvalidMetadata, "missing %s", TargetAmountKey)
	}
	amtStr := string(raw.TargetAmount)
	if unquoted, err := strconv.Unquote(amtStr); err == nil {
		amtStr = unquoted
	}
	amount, ok := sdkmath.NewIntFromString(amtStr)
	if !ok {
		return errorsmod.Wrapf(ErrInvalidMetadata, "cannot parse %s: %s", TargetAmountKey, amtStr)
	}
	m.OverflowReceiver = raw.OverflowReceiver
	m.TargetAmount = amount
	return nil
}

// Validate checks that the directive is complete: a receiver for the
// overflow and a non-negative target amount.
func (m PacketMetadata) Validate() error {
	if m.ShieldedRecv == nil {
		return errorsmod.Wrapf(ErrInvalidMetadata, "missing %s", ShieldedRecvKey)
	}
	if m.ShieldedRecv.OverflowReceiver == "" {
		return errorsmod.Wrapf(ErrInvalidMetadata, "missing %s", OverflowReceiverKey)
	}
	if m.ShieldedRecv.TargetAmount.IsNil() {
		return errorsmod.Wrapf(ErrInvalidMetadata, "missing %s", TargetAmountKey)
	}
	if m.ShieldedRecv.TargetAmount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidMetadata, "%s is negative: %s", TargetAmountKey, m.ShieldedRecv.TargetAmount)
	}
	return nil
}

// ParsePacketMetadata decodes a transfer packet memo as shielded receive
// metadata. Any failure means the packet is not a shielded receive; callers
// must fall through to the next middleware rather than reject the packet.
func ParsePacketMetadata(memo string) (*PacketMetadata, error) {
	if strings.TrimSpace(memo) == "" {
		return nil, errorsmod.Wrap(ErrInvalidMetadata, "empty memo")
	}
	var m PacketMetadata
	if err := json.Unmarshal([]byte(memo), &m); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidMetadata, err.Error())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeMemoObject decodes a memo string as a generic JSON object,
// preserving keys that belong to other middleware layers.
func DecodeMemoObject(memo string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(memo), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// IsOverflowReceiveMsg reports whether a decoded memo object carries a
// shielded receive directive.
func IsOverflowReceiveMsg(memo map[string]interface{}) bool {
	_, ok := memo[ShieldedRecvKey]
	return ok
}

// StripMiddlewareMsg removes this layer's directive from a decoded memo
// object so that downstream middlewares see the memo with the directive
// consumed. All sibling keys are preserved; a missing key is a no-op.
func StripMiddlewareMsg(memo map[string]interface{}) map[string]interface{} {
	delete(memo, ShieldedRecvKey)
	return memo
}

func (m PacketMetadata) String() string {
	bz, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(bz)
}

func (m ShieldedRecvMetadata) String() string {
	bz, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(bz)
}
