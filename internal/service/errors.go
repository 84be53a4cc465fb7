package service

import "errors"

// User-facing rejections. The gateway reports these to the caller as error
// events; none of them change room state.
var (
	ErrRoomNotFound     = errors.New("room not found, check the code")
	ErrNotHost          = errors.New("only the host can do that")
	ErrGameInProgress   = errors.New("the game has already started")
	ErrNotEnoughPlayers = errors.New("at least 2 players are needed")
	ErrNotInRoom        = errors.New("you are not in a room")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrAlreadyLoading   = errors.New("questions are already being generated")
	ErrNotYourTurn      = errors.New("it is the other team's turn")
	ErrNotPlaying       = errors.New("no question is being played")
)

// IsUserError reports whether err is one of the rejections above
func IsUserError(err error) bool {
	for _, e := range []error{
		ErrRoomNotFound, ErrNotHost, ErrGameInProgress, ErrNotEnoughPlayers,
		ErrNotInRoom, ErrInvalidSettings, ErrAlreadyLoading, ErrNotYourTurn,
		ErrNotPlaying,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
