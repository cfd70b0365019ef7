package handler

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingWord        UserState = "waiting_word"
	StateWaitingTranslation UserState = "waiting_translation"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	CurrentWord string
}
