package application

import (
	"time"

	"rsvpbot/internal/domain/entities"
)

// Windows are the lead times of the two reminder milestones.
type Windows struct {
	Alarm time.Duration
	Final time.Duration
}

// DefaultWindows: heads-up 15 minutes (plus one scan interval of slack), final call 20 seconds.
var DefaultWindows = Windows{
	Alarm: 915 * time.Second,
	Final: 20 * time.Second,
}

type Action int

const (
	ActionNone Action = iota
	ActionAlarm
	ActionFinal
)

func (a Action) String() string {
	switch a {
	case ActionAlarm:
		return "alarm"
	case ActionFinal:
		return "final"
	default:
		return "none"
	}
}

// Decision is the outcome of one stage check.
type Decision struct {
	Action    Action
	Next      entities.Stage
	Remaining time.Duration
}

// Decide is the notification stage machine. It is a pure function of the
// record and now: calling it again with the stage it returned yields
// ActionNone, so a milestone never fires twice.
func Decide(rec entities.EventRecord, now time.Time, w Windows) Decision {
	remaining := rec.ScheduledAt.Sub(now)
	none := Decision{Action: ActionNone, Next: rec.Stage, Remaining: remaining}

	if rec.Stage == entities.StageFinalSent {
		return none
	}
	if remaining < w.Final {
		return Decision{Action: ActionFinal, Next: entities.StageFinalSent, Remaining: remaining}
	}
	if rec.Stage == entities.StageCreated && remaining < 24*time.Hour && remaining.Truncate(time.Second) < w.Alarm {
		return Decision{Action: ActionAlarm, Next: entities.StageAlarmSent, Remaining: remaining}
	}
	return none
}
