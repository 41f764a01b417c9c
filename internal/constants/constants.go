package constants

// ContextKeyUserID is the gin context key holding the authenticated
// principal's provider-issued identifier.
const ContextKeyUserID = "user_id"
