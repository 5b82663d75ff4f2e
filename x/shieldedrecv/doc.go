// Package shieldedrecv handles automatically shielding the results of a
// shielded swap.
//
// The resulting amount of a swap is not known ahead of time, so a note
// for the full amount cannot be created at the onset. Instead a note is
// created for a declared minimum amount, which will be shielded; all
// assets exceeding that minimum are transferred to an overflow address
// specified by the user.
//
// The middleware intercepts inbound ICS-20 packets whose memo carries a
// shielded_recv directive and enforces that the stated receiver is the
// shielded pool address (the MASP). Everything else passes through to the
// next middleware untouched. The mint/unescrow bridge in the keeper
// package lets the overflow-receive middleware credit the surplus to a
// transparent account.
package shieldedrecv
