package shieldedrecv

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/rs/zerolog"

	"github.com/Radovenchyk/namada/x/shieldedrecv/keeper"
	"github.com/Radovenchyk/namada/x/shieldedrecv/types"
)

var (
	_ porttypes.Middleware      = (*IBCMiddleware)(nil)
	_ types.OverflowRecvContext = (*IBCMiddleware)(nil)
)

// IBCMiddleware enforces that shielded receive packets land on the MASP
// address. Every callback except OnRecvPacket is a transparent delegation
// to the wrapped application.
type IBCMiddleware struct {
	app         porttypes.IBCModule
	ics4Wrapper porttypes.ICS4Wrapper
	keeper      keeper.Keeper

	// maspAddress is the shielded pool address rendered as a string;
	// receivers are compared against it verbatim.
	maspAddress string

	logger zerolog.Logger
}

// NewIBCMiddleware wraps app with shielded receive enforcement. The app is
// typically the packet-forward middleware, which itself wraps the base
// transfer module.
func NewIBCMiddleware(
	app porttypes.IBCModule,
	ics4Wrapper porttypes.ICS4Wrapper,
	k keeper.Keeper,
	maspAddress string,
	logger zerolog.Logger,
) IBCMiddleware {
	return IBCMiddleware{
		app:         app,
		ics4Wrapper: ics4Wrapper,
		keeper:      k,
		maspAddress: maspAddress,
		logger:      logger.With().Str("module", types.ModuleName).Logger(),
	}
}

// NewIBCMiddlewareFromConfig is NewIBCMiddleware with the shielded pool
// address taken from a loaded Config.
func NewIBCMiddlewareFromConfig(
	app porttypes.IBCModule,
	ics4Wrapper porttypes.ICS4Wrapper,
	k keeper.Keeper,
	cfg *Config,
	logger zerolog.Logger,
) IBCMiddleware {
	return NewIBCMiddleware(app, ics4Wrapper, k, cfg.MaspAddress, logger)
}

// OnRecvPacket intercepts inbound transfer packets carrying a shielded
// receive directive and rejects them unless the receiver is the MASP.
// Packets that do not decode as ICS-20 transfers, or whose memo does not
// decode as shielded receive metadata, pass through untouched.
func (im IBCMiddleware) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	var data transfertypes.FungibleTokenPacketData
	if err := transfertypes.ModuleCdc.UnmarshalJSON(packet.GetData(), &data); err != nil {
		// not an ICS-20 packet
		return im.app.OnRecvPacket(ctx, packet, relayer)
	}

	if _, err := types.ParsePacketMetadata(data.Memo); err != nil {
		// not a shielded recv packet
		if hasShieldedRecvKey(data.Memo) {
			im.logger.Debug().
				Err(err).
				Str("memo", data.Memo).
				Msg("memo carries the shielded_recv key but is malformed, passing packet downstream")
		}
		return im.app.OnRecvPacket(ctx, packet, relayer)
	}

	if data.Receiver != im.maspAddress {
		ack := channeltypes.Acknowledgement{
			Response: &channeltypes.Acknowledgement_Error{
				Error: fmt.Sprintf("Shielded receive error: Address %s is not the MASP", data.Receiver),
			},
		}
		return ack
	}

	// the actual shielding happens deeper in the chain; the overflow
	// receive middleware calls back into MintCoinsExecute and
	// UnescrowCoinsExecute for the surplus
	return im.app.OnRecvPacket(ctx, packet, relayer)
}

// hasShieldedRecvKey reports whether the memo is a JSON object carrying
// the shielded_recv key, regardless of whether the directive is valid.
func hasShieldedRecvKey(memo string) bool {
	obj, err := types.DecodeMemoObject(memo)
	if err != nil {
		return false
	}
	return types.IsOverflowReceiveMsg(obj)
}

// MintCoinsExecute implements types.OverflowRecvContext.
func (im IBCMiddleware) MintCoinsExecute(ctx sdk.Context, receiver string, coin sdk.Coin) error {
	return im.keeper.MintCoinsExecute(ctx, receiver, coin)
}

// UnescrowCoinsExecute implements types.OverflowRecvContext.
func (im IBCMiddleware) UnescrowCoinsExecute(ctx sdk.Context, receiver, sourcePort, sourceChannel string, coin sdk.Coin) error {
	return im.keeper.UnescrowCoinsExecute(ctx, receiver, sourcePort, sourceChannel, coin)
}

// OnChanOpenInit implements the IBCModule interface.
func (im IBCMiddleware) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	channelCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	return im.app.OnChanOpenInit(ctx, order, connectionHops, portID, channelID, channelCap, counterparty, version)
}

// OnChanOpenTry implements the IBCModule interface.
func (im IBCMiddleware) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	channelCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	return im.app.OnChanOpenTry(ctx, order, connectionHops, portID, channelID, channelCap, counterparty, counterpartyVersion)
}

// OnChanOpenAck implements the IBCModule interface.
func (im IBCMiddleware) OnChanOpenAck(
	ctx sdk.Context,
	portID string,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	return im.app.OnChanOpenAck(ctx, portID, channelID, counterpartyChannelID, counterpartyVersion)
}

// OnChanOpenConfirm implements the IBCModule interface.
func (im IBCMiddleware) OnChanOpenConfirm(ctx sdk.Context, portID, channelID string) error {
	return im.app.OnChanOpenConfirm(ctx, portID, channelID)
}

// OnChanCloseInit implements the IBCModule interface.
func (im IBCMiddleware) OnChanCloseInit(ctx sdk.Context, portID, channelID string) error {
	return im.app.OnChanCloseInit(ctx, portID, channelID)
}

// OnChanCloseConfirm implements the IBCModule interface.
func (im IBCMiddleware) OnChanCloseConfirm(ctx sdk.Context, portID, channelID string) error {
	return im.app.OnChanCloseConfirm(ctx, portID, channelID)
}

// OnAcknowledgementPacket implements the IBCModule interface.
func (im IBCMiddleware) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	return im.app.OnAcknowledgementPacket(ctx, packet, acknowledgement, relayer)
}

// OnTimeoutPacket implements the IBCModule interface.
func (im IBCMiddleware) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	return im.app.OnTimeoutPacket(ctx, packet, relayer)
}

// SendPacket implements the ICS4Wrapper interface.
func (im IBCMiddleware) SendPacket(
	ctx sdk.Context,
	chanCap *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	return im.ics4Wrapper.SendPacket(ctx, chanCap, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, data)
}

// WriteAcknowledgement implements the ICS4Wrapper interface.
func (im IBCMiddleware) WriteAcknowledgement(
	ctx sdk.Context,
	chanCap *capabilitytypes.Capability,
	packet ibcexported.PacketI,
	ack ibcexported.Acknowledgement,
) error {
	return im.ics4Wrapper.WriteAcknowledgement(ctx, chanCap, packet, ack)
}

// GetAppVersion implements the ICS4Wrapper interface.
func (im IBCMiddleware) GetAppVersion(ctx sdk.Context, portID, channelID string) (string, bool) {
	return im.ics4Wrapper.GetAppVersion(ctx, portID, channelID)
}
