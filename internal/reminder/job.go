package reminder

// JobKind names the work a scheduled trigger performs.
type JobKind string

const (
	// JobDailyPush fires a user's daily reminder cycle.
	JobDailyPush JobKind = "daily_push"
	// JobEmailCheck is the one-shot follow-up deciding whether the email
	// fallback goes out.
	JobEmailCheck JobKind = "email_check"
)

// Job is a serializable description of scheduled work. The scheduler only
// ever holds these descriptors, never live object references, so a job can
// outlive whatever registered it.
type Job struct {
	Kind          JobKind `json:"kind"`
	UserID        int64   `json:"user_id,omitempty"`
	ReminderLogID int64   `json:"reminder_log_id,omitempty"`
}

// Handler executes jobs when their triggers fire.
type Handler interface {
	HandleJob(job Job)
}
