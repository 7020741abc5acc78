package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeSerializationFailure is raised when a SERIALIZABLE transaction cannot be ordered
	PgErrorCodeSerializationFailure = "40001"
	// PgErrorCodeDeadlockDetected is raised when two transactions wait on each other's row locks
	PgErrorCodeDeadlockDetected = "40P01"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToDecodeDocument    = "failed to decode stored document"
	ErrMsgFailedToEncodeDocument    = "failed to encode document"
)
