package types

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	// ErrInvalidMetadata is returned when a memo cannot be decoded as
	// shielded receive metadata. Callers treat it as "not a shielded
	// receive packet", never as a processing failure.
	ErrInvalidMetadata = errorsmod.Register(ModuleName, 2, "invalid shielded receive metadata")

	// ErrInvalidReceiverAddress is returned when an overflow receiver
	// cannot be decoded into an account address.
	ErrInvalidReceiverAddress = errorsmod.Register(ModuleName, 3, "invalid receiver address")

	// ErrTokenTransfer wraps failures of the underlying mint/unescrow
	// execution. Fatal to the current packet's processing.
	ErrTokenTransfer = errorsmod.Register(ModuleName, 4, "token transfer failed")
)
