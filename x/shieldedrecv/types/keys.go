package types

const (
	// ModuleName defines the module name
	ModuleName = "shieldedrecv"

	// ShieldedRecvKey is the top-level memo key that marks a packet as a
	// shielded receive. Middlewares further down the chain never see it:
	// it is stripped once this layer has consumed the directive.
	ShieldedRecvKey = "shielded_recv"

	OverflowReceiverKey = "overflow_receiver"
	TargetAmountKey     = "target_amount"
)
