package models

// Canonical transaction types
const (
	TypeSend    = "SEND"
	TypeReceive = "RECEIVE"
	TypeUnknown = "UNKNOWN"
)

// Sentinel used for a party that could not be normalized to a phone number.
const PartyUnknown = "Unknown"

// IDPrefix is the fixed prefix of every transaction identifier.
const IDPrefix = "TXN_"

// Timestamp layout used for all rendered timestamps (ISO-8601, local time).
const TimestampLayout = "2006-01-02T15:04:05"

// Validation issue texts carried in ValidationReport.Issues.
const (
	IssueInvalidAmount   = "Invalid or zero amount"
	IssueUnknownSender   = "Unknown sender"
	IssueUnknownReceiver = "Unknown receiver"
	IssueUnknownType     = "Unknown transaction type"
)

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
)
