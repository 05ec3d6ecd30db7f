// Package common contains constants, sentinel errors and small helpers shared
// by the merchant dashboard client and the development canister.
package common

// DefaultPollInterval is how often the dashboard refreshes the transaction log
// unless configured otherwise.
const DefaultPollInterval = 10

// StateSize is the number of random bytes in a login state parameter.
const StateSize = 16
