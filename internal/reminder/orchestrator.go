package reminder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jthorne/penny/internal/model"
	"github.com/jthorne/penny/internal/push"
)

const (
	pushTitle    = "Expense Reminder"
	pushBody     = "Time to add your expenses"
	emailSubject = "Your Expense Report"
	emailBody    = "Reminder: Add your expenses today!"

	// DefaultFollowUpDelay is how long after the push the email fallback
	// check runs; it is also the width of the activity window.
	DefaultFollowUpDelay = time.Hour
)

type TokenStore interface {
	ListForUser(userID int64) ([]model.DeviceToken, error)
	RemoveByToken(token string) error
}

type LedgerStore interface {
	ExistsInWindow(userID int64, start, end time.Time) (bool, error)
}

type LogStore interface {
	Insert(userID int64, pushSentAt time.Time) (*model.ReminderLog, error)
	Get(id int64) (*model.ReminderLog, error)
	MarkEmailSent(id int64) error
}

type EmailSource interface {
	GetEmail(userID int64) (string, error)
}

// PushGateway delivers one notification to one device token. An error
// matching push.ErrInvalidToken means the token is dead and gets removed.
type PushGateway interface {
	Deliver(token, title, body, clickURL string) error
}

type EmailGateway interface {
	Send(to, subject, textBody, attachmentName string, attachment []byte) error
}

// FollowUpScheduler schedules the delayed email check.
type FollowUpScheduler interface {
	ScheduleOnce(id string, at time.Time, job Job)
}

// Orchestrator runs one reminder cycle: push now, then a delayed check that
// emails the user only if no ledger activity appeared in the window.
type Orchestrator struct {
	tokens        TokenStore
	ledger        LedgerStore
	logs          LogStore
	users         EmailSource
	pushGateway   PushGateway
	emailGateway  EmailGateway
	followUps     FollowUpScheduler
	logger        *slog.Logger
	frontendURL   string
	followUpDelay time.Duration
	now           func() time.Time
}

type OrchestratorConfig struct {
	FrontendURL string
	// FollowUpDelay overrides the 1 hour default; zero keeps the default.
	FollowUpDelay time.Duration
}

func NewOrchestrator(
	tokens TokenStore,
	ledger LedgerStore,
	logs LogStore,
	users EmailSource,
	pushGateway PushGateway,
	emailGateway EmailGateway,
	followUps FollowUpScheduler,
	cfg OrchestratorConfig,
	logger *slog.Logger,
) *Orchestrator {
	delay := cfg.FollowUpDelay
	if delay <= 0 {
		delay = DefaultFollowUpDelay
	}
	return &Orchestrator{
		tokens:        tokens,
		ledger:        ledger,
		logs:          logs,
		users:         users,
		pushGateway:   pushGateway,
		emailGateway:  emailGateway,
		followUps:     followUps,
		logger:        logger,
		frontendURL:   cfg.FrontendURL,
		followUpDelay: delay,
		now:           time.Now,
	}
}

// HandleJob dispatches a fired trigger to the matching cycle step.
func (o *Orchestrator) HandleJob(job Job) {
	switch job.Kind {
	case JobDailyPush:
		o.SendDailyPush(job.UserID)
	case JobEmailCheck:
		o.CheckAndMaybeEmail(job.ReminderLogID)
	default:
		o.logger.Warn("unknown job kind", "kind", job.Kind)
	}
}

// SendDailyPush starts a reminder cycle: deliver the push to every device
// token concurrently, drop tokens the gateway reports dead, record the cycle,
// and schedule the email check. A user with no registered device still gets
// a cycle recorded so the email fallback can run.
func (o *Orchestrator) SendDailyPush(userID int64) {
	now := o.now().UTC()

	tokens, err := o.tokens.ListForUser(userID)
	if err != nil {
		o.logger.Error("reminder cycle abandoned: list tokens", "user_id", userID, "error", err)
		return
	}

	if len(tokens) == 0 {
		o.logger.Debug("no device tokens", "user_id", userID)
	} else {
		o.fanOutPush(userID, tokens)
	}

	rl, err := o.logs.Insert(userID, now)
	if err != nil {
		o.logger.Error("reminder cycle abandoned: insert log", "user_id", userID, "error", err)
		return
	}

	o.followUps.ScheduleOnce(
		fmt.Sprintf("email_check_%d", rl.ID),
		now.Add(o.followUpDelay),
		Job{Kind: JobEmailCheck, ReminderLogID: rl.ID},
	)
}

// fanOutPush delivers to every token concurrently and waits for all
// outcomes; token cleanup needs the full result set.
func (o *Orchestrator) fanOutPush(userID int64, tokens []model.DeviceToken) {
	clickURL := o.frontendURL + "/login"

	var wg sync.WaitGroup
	results := make([]error, len(tokens))

	for i, dt := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			results[i] = o.pushGateway.Deliver(token, pushTitle, pushBody, clickURL)
		}(i, dt.Token)
	}
	wg.Wait()

	var delivered, failed int
	for i, err := range results {
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, push.ErrInvalidToken):
			failed++
			if rmErr := o.tokens.RemoveByToken(tokens[i].Token); rmErr != nil {
				o.logger.Error("remove dead token", "user_id", userID, "error", rmErr)
			}
		default:
			failed++
			o.logger.Warn("push delivery failed", "user_id", userID, "error", err)
		}
	}

	o.logger.Info("daily push sent",
		"user_id", userID, "delivered", delivered, "failed", failed)
}

// CheckAndMaybeEmail runs at pushSentAt + delay. If the user logged any
// expense inside [pushSentAt, pushSentAt+delay] the cycle ends silently;
// otherwise the fallback email goes out and, only when delivery succeeded,
// the log is marked. Safe to invoke more than once per cycle.
func (o *Orchestrator) CheckAndMaybeEmail(reminderLogID int64) {
	rl, err := o.logs.Get(reminderLogID)
	if err != nil {
		o.logger.Error("follow-up abandoned: get log", "reminder_log_id", reminderLogID, "error", err)
		return
	}
	if rl == nil || rl.EmailSent {
		return
	}

	start := rl.PushSentAt
	end := start.Add(o.followUpDelay)

	active, err := o.ledger.ExistsInWindow(rl.UserID, start, end)
	if err != nil {
		o.logger.Error("follow-up abandoned: activity check", "reminder_log_id", reminderLogID, "error", err)
		return
	}
	if active {
		o.logger.Debug("reminder suppressed, user already active", "user_id", rl.UserID)
		return
	}

	email, err := o.users.GetEmail(rl.UserID)
	if err != nil {
		o.logger.Error("follow-up abandoned: load email", "user_id", rl.UserID, "error", err)
		return
	}
	if email == "" {
		o.logger.Debug("no email on file", "user_id", rl.UserID)
		return
	}

	if err := o.emailGateway.Send(email, emailSubject, emailBody, "", nil); err != nil {
		// Leave email_sent false so a later retry can still see this cycle.
		o.logger.Error("reminder email failed", "user_id", rl.UserID, "error", err)
		return
	}

	if err := o.logs.MarkEmailSent(rl.ID); err != nil {
		o.logger.Error("mark email sent", "reminder_log_id", rl.ID, "error", err)
		return
	}
	o.logger.Info("reminder email sent", "user_id", rl.UserID)
}
