package domain

// KeyRequestID is the gin context key holding the per-request ID
const KeyRequestID = "RequestID"
