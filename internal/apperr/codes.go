package apperr

type Code string

const (
	CodeInvalidArgument        Code = "INVALID_ARGUMENT"
	CodeDuplicatePlayer        Code = "DUPLICATE_PLAYER"
	CodeNotFound               Code = "NOT_FOUND"
	CodeInvalidStateTransition Code = "INVALID_STATE_TRANSITION"
	CodeNotEnoughPlayers       Code = "NOT_ENOUGH_PLAYERS"
	CodeStorageUnavailable     Code = "STORAGE_UNAVAILABLE"
	CodeStorageConflict        Code = "STORAGE_CONFLICT"
)

// Retryable reports whether a caller may repeat the command unchanged.
func (c Code) Retryable() bool {
	return c == CodeStorageUnavailable || c == CodeStorageConflict
}
