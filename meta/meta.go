// meta/meta.go
package meta

// MEEPLES_PER_PLAYER is every player's meeple allotment.
const MEEPLES_PER_PLAYER = 7

// HAND_SIZE is the default number of tiles a player holds.
const HAND_SIZE = 2

const MAX_HAND_SIZE = 5

// OBJECTIVES_PER_PLAYER defines how many hidden objectives each player is dealt.
const OBJECTIVES_PER_PLAYER = 2

const MIN_PLAYERS = 2
const MAX_PLAYERS = 5

// GO_ROUTINES defines the number of goroutines the search opponent evaluates with.
const GO_ROUTINES = 8

// SEARCH_SAMPLE bounds the placements the search opponent looks at per turn.
const SEARCH_SAMPLE = 15

// MAX_TURNS stops an autoplayed game that fails to terminate.
const MAX_TURNS = 300
