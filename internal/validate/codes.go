package validate

// Error codes reported by the rules. Callers map them 1:1 onto user-facing
// validation errors.
const (
	CodeStateMissing = "STATE_MISSING"

	// Game
	CodeGameNotInLobby     = "GAME_NOT_IN_LOBBY"
	CodeGameNotInProgress  = "GAME_NOT_IN_PROGRESS"
	CodeNotEnoughTeams     = "NOT_ENOUGH_TEAMS"
	CodeNotEnoughPlayers   = "NOT_ENOUGH_PLAYERS"
	CodeMaxRoundsReached   = "MAX_ROUNDS_REACHED"
	CodeGameAlreadyDecided = "GAME_ALREADY_DECIDED"
	CodeWinnerInvalid      = "WINNER_INVALID"
	CodeTeamNotFound       = "TEAM_NOT_FOUND"
	CodeAlreadySeated      = "ALREADY_SEATED"
	CodeFormatInvalid      = "FORMAT_INVALID"
	CodeDisplayNameInvalid = "DISPLAY_NAME_INVALID"

	// Round
	CodeRoundMissing       = "ROUND_MISSING"
	CodeRoundNotCompleted  = "ROUND_NOT_COMPLETED"
	CodeRoundNotSetup      = "ROUND_NOT_SETUP"
	CodeRoundNotInProgress = "ROUND_NOT_IN_PROGRESS"
	CodeCardsAlreadyDealt  = "CARDS_ALREADY_DEALT"
	CodeCardsNotDealt      = "CARDS_NOT_DEALT"
	CodeRolesNotAssigned   = "ROLES_NOT_ASSIGNED"

	// Requester
	CodeNotCodemaster  = "NOT_CODEMASTER"
	CodeNotCodebreaker = "NOT_CODEBREAKER"
	CodeNotYourTurn    = "NOT_YOUR_TURN"

	// Turn
	CodeTurnsMissing       = "TURNS_MISSING"
	CodeTurnNotActive      = "TURN_NOT_ACTIVE"
	CodeActiveTurnExists   = "ACTIVE_TURN_EXISTS"
	CodeTeamsMustAlternate = "TEAMS_MUST_ALTERNATE"

	// Clue
	CodeClueAlreadyGiven  = "CLUE_ALREADY_GIVEN"
	CodeClueMissing       = "CLUE_MISSING"
	CodeClueWordInvalid   = "CLUE_WORD_INVALID"
	CodeClueWordOnBoard   = "CLUE_WORD_ON_BOARD"
	CodeClueWordRepeated  = "CLUE_WORD_REPEATED"
	CodeClueCountInvalid  = "CLUE_COUNT_INVALID"
	CodeClueCountTooLarge = "CLUE_COUNT_TOO_LARGE"

	// Guess
	CodeNoGuessesRemaining  = "NO_GUESSES_REMAINING"
	CodeCardNotFound        = "CARD_NOT_FOUND"
	CodeCardAlreadySelected = "CARD_ALREADY_SELECTED"
)
