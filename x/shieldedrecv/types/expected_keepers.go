package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the banking operations the shielded receive bridge
// needs from the host execution context. These are the same handles used
// by the transfer stack further down the middleware chain, so balance
// mutations are visible consistently across all links within one packet's
// processing.
type BankKeeper interface {
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// OverflowRecvContext is the bridging contract consumed by the
// overflow-receive middleware: once it has split a received amount into
// the shielded target and the surplus, it calls back through this
// interface to credit the surplus to a transparent account.
type OverflowRecvContext interface {
	// MintCoinsExecute mints coin to the receiver. Used when the
	// receiving chain is not the token's source.
	MintCoinsExecute(ctx sdk.Context, receiver string, coin sdk.Coin) error

	// UnescrowCoinsExecute releases coin from the escrow account of the
	// given port/channel pair back to the receiver. Used when the token
	// returns to its source chain.
	UnescrowCoinsExecute(ctx sdk.Context, receiver, sourcePort, sourceChannel string, coin sdk.Coin) error
}
