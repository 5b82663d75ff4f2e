package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	"github.com/rs/zerolog"

	"github.com/Radovenchyk/namada/x/shieldedrecv/types"
)

// Keeper implements the overflow-receive bridge: it translates the
// mint/unescrow requests of the overflow-receive middleware into calls
// against the host bank, decoding addresses and remapping errors on the
// way. It holds no state of its own; the bank keeper and verifier set are
// shared with the transfer stack further down the chain, and the host
// guarantees exclusive access to them for the duration of one packet's
// processing.
type Keeper struct {
	bankKeeper types.BankKeeper
	verifiers  *types.VerifierSet
	logger     zerolog.Logger
}

func NewKeeper(bankKeeper types.BankKeeper, verifiers *types.VerifierSet, logger zerolog.Logger) Keeper {
	return Keeper{
		bankKeeper: bankKeeper,
		verifiers:  verifiers,
		logger:     logger.With().Str("module", types.ModuleName).Logger(),
	}
}

// MintCoinsExecute mints coin and credits it to the receiver, following
// the transfer module's mint discipline: mint to the module account, then
// move to the receiver. A failed step surfaces immediately; the caller is
// responsible for aborting the surrounding transaction.
func (k Keeper) MintCoinsExecute(ctx sdk.Context, receiver string, coin sdk.Coin) error {
	addr, err := sdk.AccAddressFromBech32(receiver)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidReceiverAddress, "%s: %s", receiver, err)
	}

	coins := sdk.NewCoins(coin)
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return errorsmod.Wrap(types.ErrTokenTransfer, err.Error())
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
		return errorsmod.Wrap(types.ErrTokenTransfer, err.Error())
	}

	k.verifiers.Insert(addr.String())
	k.logger.Debug().
		Str("receiver", addr.String()).
		Str("coin", coin.String()).
		Msg("minted overflow coins")
	return nil
}

// UnescrowCoinsExecute releases coin from the escrow account of the given
// port/channel pair back to the receiver.
func (k Keeper) UnescrowCoinsExecute(ctx sdk.Context, receiver, sourcePort, sourceChannel string, coin sdk.Coin) error {
	addr, err := sdk.AccAddressFromBech32(receiver)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidReceiverAddress, "%s: %s", receiver, err)
	}

	escrowAddr := transfertypes.GetEscrowAddress(sourcePort, sourceChannel)
	if err := k.bankKeeper.SendCoins(ctx, escrowAddr, addr, sdk.NewCoins(coin)); err != nil {
		return errorsmod.Wrap(types.ErrTokenTransfer, err.Error())
	}

	k.verifiers.Insert(addr.String())
	k.logger.Debug().
		Str("receiver", addr.String()).
		Str("coin", coin.String()).
		Str("port", sourcePort).
		Str("channel", sourceChannel).
		Msg("unescrowed overflow coins")
	return nil
}
