package types

// Version is the canonical project version.
// The report contract, the cache format and the notification payload all
// carry this value.
const Version = "0.3.0"
