package event

// --- Turn flow events ---

// TurnStarted is emitted when a unit becomes active and its turn
// resources reset.
type TurnStarted struct {
	BattleID string
	UnitID   string
	Round    int
}

// RoundStarted is emitted at round rollover, after cooldowns and
// condition durations have ticked.
type RoundStarted struct {
	BattleID string
	Round    int
}

// --- Action events (consumed by the broadcast layer for client sync) ---

// ActionApplied describes the state delta of one successfully executed
// action. Reason is diagnostic only (AI decision rationale).
type ActionApplied struct {
	BattleID   string
	ActorID    string
	Action     string // MOVE, ATTACK, SKILL, SPELL, DASH, PASS
	TargetID   string // "" when the action has no unit target
	Code       string // ability code for SKILL/SPELL
	FromX, FromY int
	ToX, ToY     int
	Damage     int
	Healing    int
	Missed     bool
	TargetHP   int // target HP after resolution
	Reason     string
}

// UnitDefeated is emitted once per kill, in the same resolution step that
// drops the unit to 0 HP. Subscribers: meta-progression (XP), broadcast.
type UnitDefeated struct {
	BattleID       string
	VictimID       string
	VictimCategory string
	KillerID       string // "" for surrender or environment
}

// --- Session lifecycle events ---

type PlayerDisconnected struct {
	BattleID string
	PlayerID string
}

type PlayerSurrendered struct {
	BattleID string
	PlayerID string
	Reason   string // "explicit", "grace_expired", "left"
}

// BattleEnded is emitted exactly once per match.
type BattleEnded struct {
	BattleID  string
	WinnerID  string // "" on a draw
	WinReason string
	Rounds    int
}

type RematchStarted struct {
	BattleID string
}
