package battle

// RejectReason is the discriminated reason an action request was refused.
// Rejections never mutate state and are always safe to retry with
// corrected input.
type RejectReason string

const (
	RejectUnitNotFound         RejectReason = "UnitNotFound"
	RejectUnitDead             RejectReason = "UnitDead"
	RejectTargetDestroyed      RejectReason = "TargetDestroyed"
	RejectNotOwner             RejectReason = "NotOwner"
	RejectNotYourTurn          RejectReason = "NotYourTurn"
	RejectOutOfRange           RejectReason = "OutOfRange"
	RejectInsufficientResource RejectReason = "InsufficientResource"
	RejectOnCooldown           RejectReason = "OnCooldown"
	RejectPositionOccupied     RejectReason = "PositionOccupied"
	RejectPositionOutOfBounds  RejectReason = "PositionOutOfBounds"
	RejectNoActionsLeft        RejectReason = "NoActionsLeft"
	RejectUnknownAbility       RejectReason = "UnknownAbility"
	RejectBattleNotActive      RejectReason = "BattleNotActive"
)

// Reject is the error type returned by every validator.
type Reject struct {
	Reason RejectReason
	Detail string
}

func (r *Reject) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return string(r.Reason) + ": " + r.Detail
}

// ReasonOf extracts the reject reason from an error, "" for non-rejects.
func ReasonOf(err error) RejectReason {
	if r, ok := err.(*Reject); ok {
		return r.Reason
	}
	return ""
}
