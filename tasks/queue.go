// queue.go - Durable email work queue
//
// Tasks are stored in the email_tasks table before anything is sent, then
// their ids travel over a buffered channel to a single worker goroutine.
// A cron sweep re-dispatches pending tasks whose next attempt is due, which
// covers retries, a full channel, and tasks left over from a restart.

package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-bookings-backend/models"
	"hotel-bookings-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	KindBookingConfirmation = "booking_confirmation"

	// claimLease keeps a task away from the sweep while one attempt is in flight.
	claimLease = 10 * time.Minute
)

var errNoSender = errors.New("smtp is not configured")

// Options tune the retry policy of a Queue.
type Options struct {
	MaxAttempts       int
	Backoff           time.Duration
	OverrideRecipient string
	Buffer            int
}

type Queue struct {
	db       *gorm.DB
	sender   Sender
	opts     Options
	ch       chan string
	validate *validator.Validate
	now      func() time.Time
}

// NewQueue returns a queue delivering through sender. A nil sender fails every task.
func NewQueue(db *gorm.DB, sender Sender, opts Options) *Queue {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Buffer < 1 {
		opts.Buffer = 100
	}
	return &Queue{
		db:       db,
		sender:   sender,
		opts:     opts,
		ch:       make(chan string, opts.Buffer),
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BookingCreated queues the confirmation email for a new booking.
func (q *Queue) BookingCreated(ctx context.Context, ev services.BookingCreated) error {
	payload := ev.Booking.AsMap()
	payload["hotel_id"] = ev.HotelID
	payload["hotel_name"] = ev.HotelName
	_, err := q.EnqueueBookingConfirmation(ctx, payload, ev.Recipient)
	return err
}

// EnqueueBookingConfirmation stores a confirmation task and hands it to the worker.
func (q *Queue) EnqueueBookingConfirmation(ctx context.Context, booking map[string]any, to string) (*models.EmailTask, error) {
	raw, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("encode booking payload: %w", err)
	}
	if q.opts.OverrideRecipient != "" {
		to = q.opts.OverrideRecipient
	}

	task := &models.EmailTask{
		ID:            uuid.NewString(),
		Kind:          KindBookingConfirmation,
		Recipient:     to,
		Payload:       datatypes.JSON(raw),
		Status:        models.TaskPending,
		MaxAttempts:   q.opts.MaxAttempts,
		NextAttemptAt: q.now(),
	}
	if err := q.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("store email task: %w", err)
	}
	q.dispatch(task.ID)
	return task, nil
}

// Run processes dispatched tasks until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-q.ch:
			if err := q.Process(ctx, id); err != nil {
				log.Printf("[MAIL] task %s: %v", id, err)
			}
		}
	}
}

// Process makes one delivery attempt for task id. It does nothing if the task
// is not pending or not yet due.
func (q *Queue) Process(ctx context.Context, id string) error {
	task, ok, err := q.claim(ctx, id)
	if err != nil || !ok {
		return err
	}

	sendErr := q.send(task)
	if sendErr == nil {
		return q.db.WithContext(ctx).Model(task).Updates(map[string]any{
			"status":     models.TaskSent,
			"attempts":   task.Attempts + 1,
			"last_error": "",
		}).Error
	}

	attempts := task.Attempts + 1
	fields := map[string]any{
		"attempts":   attempts,
		"last_error": sendErr.Error(),
	}
	var permanent *permanentError
	if attempts >= task.MaxAttempts || errors.As(sendErr, &permanent) {
		fields["status"] = models.TaskFailed
	} else {
		fields["next_attempt_at"] = q.now().Add(q.opts.Backoff * time.Duration(attempts))
	}
	if err := q.db.WithContext(ctx).Model(task).Updates(fields).Error; err != nil {
		return err
	}
	return sendErr
}

// DispatchDue hands every due pending task to the worker and returns how many it queued.
func (q *Queue) DispatchDue(ctx context.Context) (int, error) {
	var ids []string
	err := q.db.WithContext(ctx).Model(&models.EmailTask{}).
		Where("status = ? AND next_attempt_at <= ?", models.TaskPending, q.now()).
		Order("next_attempt_at").
		Limit(cap(q.ch)).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		if q.dispatch(id) {
			n++
		}
	}
	return n, nil
}

// StartRetrySweep runs DispatchDue on the given cron schedule. Stop the returned scheduler on shutdown.
func (q *Queue) StartRetrySweep(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		n, err := q.DispatchDue(ctx)
		if err != nil {
			log.Printf("[MAIL] retry sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[MAIL] retry sweep dispatched %d task(s)", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule retry sweep %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func (q *Queue) dispatch(id string) bool {
	select {
	case q.ch <- id:
		return true
	default:
		log.Printf("[MAIL] queue full, task %s left for the retry sweep", id)
		return false
	}
}

// claim moves next_attempt_at past the lease so no other dispatch picks the task up meanwhile.
func (q *Queue) claim(ctx context.Context, id string) (*models.EmailTask, bool, error) {
	now := q.now()
	res := q.db.WithContext(ctx).Model(&models.EmailTask{}).
		Where("id = ? AND status = ? AND next_attempt_at <= ?", id, models.TaskPending, now).
		Update("next_attempt_at", now.Add(claimLease))
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	var task models.EmailTask
	if err := q.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, false, err
	}
	return &task, true, nil
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (q *Queue) send(task *models.EmailTask) error {
	if q.sender == nil {
		return &permanentError{errNoSender}
	}
	if err := q.validate.Var(task.Recipient, "required,email"); err != nil {
		return &permanentError{fmt.Errorf("invalid recipient %q: %w", task.Recipient, err)}
	}

	var booking map[string]any
	if err := json.Unmarshal(task.Payload, &booking); err != nil {
		return &permanentError{fmt.Errorf("decode payload: %w", err)}
	}
	msg, err := BookingConfirmation(booking, task.Recipient)
	if err != nil {
		return &permanentError{err}
	}
	return q.sender.Send(msg)
}
