package shieldedrecv

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Radovenchyk/namada/x/shieldedrecv/keeper"
	"github.com/Radovenchyk/namada/x/shieldedrecv/types"
)

// mockApp is the next middleware in the chain, instrumented with call
// counters so tests can verify delegation (or its absence).
type mockApp struct {
	recvCalls    int
	ackCalls     int
	timeoutCalls int
	chanCalls    int

	lastPacket  channeltypes.Packet
	lastRelayer sdk.AccAddress

	recvAck ibcexported.Acknowledgement
}

func (m *mockApp) OnChanOpenInit(_ sdk.Context, _ channeltypes.Order, _ []string, _, _ string, _ *capabilitytypes.Capability, _ channeltypes.Counterparty, version string) (string, error) {
	m.chanCalls++
	return version, nil
}

func (m *mockApp) OnChanOpenTry(_ sdk.Context, _ channeltypes.Order, _ []string, _, _ string, _ *capabilitytypes.Capability, _ channeltypes.Counterparty, counterpartyVersion string) (string, error) {
	m.chanCalls++
	return counterpartyVersion, nil
}

func (m *mockApp) OnChanOpenAck(_ sdk.Context, _, _, _, _ string) error {
	m.chanCalls++
	return nil
}

func (m *mockApp) OnChanOpenConfirm(_ sdk.Context, _, _ string) error {
	m.chanCalls++
	return nil
}

func (m *mockApp) OnChanCloseInit(_ sdk.Context, _, _ string) error {
	m.chanCalls++
	return nil
}

func (m *mockApp) OnChanCloseConfirm(_ sdk.Context, _, _ string) error {
	m.chanCalls++
	return nil
}

func (m *mockApp) OnRecvPacket(_ sdk.Context, packet channeltypes.Packet, relayer sdk.AccAddress) ibcexported.Acknowledgement {
	m.recvCalls++
	m.lastPacket = packet
	m.lastRelayer = relayer
	return m.recvAck
}

func (m *mockApp) OnAcknowledgementPacket(_ sdk.Context, packet channeltypes.Packet, _ []byte, relayer sdk.AccAddress) error {
	m.ackCalls++
	m.lastPacket = packet
	m.lastRelayer = relayer
	return nil
}

func (m *mockApp) OnTimeoutPacket(_ sdk.Context, packet channeltypes.Packet, relayer sdk.AccAddress) error {
	m.timeoutCalls++
	m.lastPacket = packet
	m.lastRelayer = relayer
	return nil
}

// noopBankKeeper satisfies the keeper's expected interface; the recv
// tests never reach the bank.
type noopBankKeeper struct{}

func (noopBankKeeper) MintCoins(_ context.Context, _ string, _ sdk.Coins) error {
	return nil
}

func (noopBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, _ string, _ sdk.AccAddress, _ sdk.Coins) error {
	return nil
}

func (noopBankKeeper) SendCoins(_ context.Context, _, _ sdk.AccAddress, _ sdk.Coins) error {
	return nil
}

type mockICS4Wrapper struct {
	sendCalls  int
	writeCalls int
}

func (m *mockICS4Wrapper) SendPacket(_ sdk.Context, _ *capabilitytypes.Capability, _, _ string, _ clienttypes.Height, _ uint64, _ []byte) (uint64, error) {
	m.sendCalls++
	return 7, nil
}

func (m *mockICS4Wrapper) WriteAcknowledgement(_ sdk.Context, _ *capabilitytypes.Capability, _ ibcexported.PacketI, _ ibcexported.Acknowledgement) error {
	m.writeCalls++
	return nil
}

func (m *mockICS4Wrapper) GetAppVersion(_ sdk.Context, _, _ string) (string, bool) {
	return transfertypes.Version, true
}

var (
	maspAddress = sdk.AccAddress([]byte("masp-pool-address")).String()
	relayer     = sdk.AccAddress([]byte("relayer-address"))
)

func newTestMiddleware(app *mockApp, ics4 *mockICS4Wrapper) IBCMiddleware {
	k := keeper.NewKeeper(&noopBankKeeper{}, types.NewVerifierSet(), zerolog.Nop())
	return NewIBCMiddleware(app, ics4, k, maspAddress, zerolog.Nop())
}

func transferPacket(t *testing.T, receiver, memo string) channeltypes.Packet {
	t.Helper()
	data := transfertypes.NewFungibleTokenPacketData(
		"uatom", "100", sdk.AccAddress([]byte("sender-address")).String(), receiver, memo,
	)
	return channeltypes.NewPacket(
		data.GetBytes(), 1,
		"transfer", "channel-0",
		"transfer", "channel-1",
		clienttypes.NewHeight(1, 100), 0,
	)
}

const shieldedMemo = `{"shielded_recv":{"overflow_receiver":"alice","target_amount":"100"}}`

func TestOnRecvPacketPassThroughNonTransfer(t *testing.T) {
	app := &mockApp{recvAck: channeltypes.NewResultAcknowledgement([]byte("next-ack"))}
	im := newTestMiddleware(app, &mockICS4Wrapper{})

	packet := channeltypes.NewPacket(
		[]byte("not an ics-20 payload"), 1,
		"transfer", "channel-0",
		"transfer", "channel-1",
		clienttypes.NewHeight(1, 100), 0,
	)

	ack := im.OnRecvPacket(sdk.Context{}, packet, relayer)
	assert.Equal(t, 1, app.recvCalls)
	assert.Equal(t, app.recvAck.Acknowledgement(), ack.Acknowledgement())
	assert.Equal(t, packet, app.lastPacket)
	assert.Equal(t, relayer, app.lastRelayer)
}

func TestOnRecvPacketPassThroughNoDirective(t *testing.T) {
	for name, memo := range map[string]string{
		"empty memo":     "",
		"plain memo":     "thanks for the fish",
		"foreign memo":   `{"forward":{"receiver":"bob","port":"transfer","channel":"channel-2"}}`,
		"malformed memo": `{"shielded_recv":{"overflow_receiver":"alice"}}`,
	} {
		app := &mockApp{recvAck: channeltypes.NewResultAcknowledgement([]byte("next-ack"))}
		im := newTestMiddleware(app, &mockICS4Wrapper{})

		packet := transferPacket(t, "whoever", memo)
		ack := im.OnRecvPacket(sdk.Context{}, packet, relayer)

		assert.Equal(t, 1, app.recvCalls, "case %s must delegate", name)
		assert.Equal(t, app.recvAck.Acknowledgement(), ack.Acknowledgement(), "case %s", name)
	}
}

func TestOnRecvPacketRejectsNonMaspReceiver(t *testing.T) {
	app := &mockApp{recvAck: channeltypes.NewResultAcknowledgement([]byte("next-ack"))}
	im := newTestMiddleware(app, &mockICS4Wrapper{})

	packet := transferPacket(t, "not-the-pool", shieldedMemo)
	ack := im.OnRecvPacket(sdk.Context{}, packet, relayer)

	require.NotNil(t, ack)
	assert.False(t, ack.Success())
	assert.Contains(t, string(ack.Acknowledgement()), "is not the MASP")
	assert.Contains(t, string(ack.Acknowledgement()), "not-the-pool")

	// processing ends here; the next middleware is never invoked
	assert.Equal(t, 0, app.recvCalls)
}

func TestOnRecvPacketAcceptsMaspReceiver(t *testing.T) {
	app := &mockApp{recvAck: channeltypes.NewResultAcknowledgement([]byte("next-ack"))}
	im := newTestMiddleware(app, &mockICS4Wrapper{})

	packet := transferPacket(t, maspAddress, shieldedMemo)
	ack := im.OnRecvPacket(sdk.Context{}, packet, relayer)

	assert.Equal(t, 1, app.recvCalls)
	assert.Equal(t, app.recvAck.Acknowledgement(), ack.Acknowledgement())
	assert.Equal(t, packet, app.lastPacket)
	assert.Equal(t, relayer, app.lastRelayer)
}

func TestDelegatedCallbacks(t *testing.T) {
	app := &mockApp{}
	ics4 := &mockICS4Wrapper{}
	im := newTestMiddleware(app, ics4)
	ctx := sdk.Context{}

	version, err := im.OnChanOpenInit(ctx, channeltypes.UNORDERED, nil, "transfer", "channel-0", nil, channeltypes.Counterparty{}, transfertypes.Version)
	require.NoError(t, err)
	assert.Equal(t, transfertypes.Version, version)

	version, err = im.OnChanOpenTry(ctx, channeltypes.UNORDERED, nil, "transfer", "channel-0", nil, channeltypes.Counterparty{}, transfertypes.Version)
	require.NoError(t, err)
	assert.Equal(t, transfertypes.Version, version)

	require.NoError(t, im.OnChanOpenAck(ctx, "transfer", "channel-0", "channel-1", transfertypes.Version))
	require.NoError(t, im.OnChanOpenConfirm(ctx, "transfer", "channel-0"))
	require.NoError(t, im.OnChanCloseInit(ctx, "transfer", "channel-0"))
	require.NoError(t, im.OnChanCloseConfirm(ctx, "transfer", "channel-0"))
	assert.Equal(t, 6, app.chanCalls)

	packet := transferPacket(t, "whoever", "")
	require.NoError(t, im.OnAcknowledgementPacket(ctx, packet, []byte("ack"), relayer))
	assert.Equal(t, 1, app.ackCalls)
	require.NoError(t, im.OnTimeoutPacket(ctx, packet, relayer))
	assert.Equal(t, 1, app.timeoutCalls)

	seq, err := im.SendPacket(ctx, nil, "transfer", "channel-0", clienttypes.NewHeight(1, 100), 0, []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), seq)
	assert.Equal(t, 1, ics4.sendCalls)

	require.NoError(t, im.WriteAcknowledgement(ctx, nil, packet, channeltypes.NewResultAcknowledgement([]byte("ok"))))
	assert.Equal(t, 1, ics4.writeCalls)

	appVersion, found := im.GetAppVersion(ctx, "transfer", "channel-0")
	assert.True(t, found)
	assert.Equal(t, transfertypes.Version, appVersion)
}
