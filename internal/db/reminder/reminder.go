package reminder

import (
	"context"
	"errors"
	e "remindbot/internal/core/domain/errors"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/db"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
)

const columns = "id, user_id, task_description, at, status, created_at"

const createReminder = `
INSERT INTO reminder (user_id, task_description, at, status, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns

const readReminders = `
SELECT ` + columns + `
FROM reminder
WHERE ($1::boolean OR user_id = $2::text)
  AND ($3::boolean OR status = ANY($4::text[]))
  AND ($5::boolean OR task_description ILIKE '%' || $6::text || '%' ESCAPE '\')
  AND ($7::boolean OR at <= $8::timestamptz)
ORDER BY
  CASE WHEN $9::boolean THEN at END ASC,
  id ASC
LIMIT CASE WHEN $10::boolean THEN NULL ELSE $11::bigint END`

const updateReminder = `
UPDATE reminder SET
  task_description = CASE WHEN $2::boolean THEN $3::text ELSE task_description END,
  at = CASE WHEN $4::boolean THEN $5::timestamptz ELSE at END,
  status = CASE WHEN $6::boolean THEN $7::text ELSE status END
WHERE id = $1
  AND ($8::boolean OR user_id = $9::text)
  AND ($10::boolean OR status = $11::text)
RETURNING ` + columns

const deleteReminder = `
DELETE FROM reminder
WHERE id = $1
  AND ($2::boolean OR user_id = $3::text)
  AND ($4::boolean OR status = $5::text)`

type PgxReminderRepository struct {
	db db.DBTX
}

func NewPgxReminderRepository(conn db.DBTX) *PgxReminderRepository {
	if conn == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxReminderRepository{db: conn}
}

func (r *PgxReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		createReminder,
		string(input.UserID),
		input.TaskDescription,
		input.At,
		input.Status.String(),
		input.CreatedAt,
	)
	return scanReminder(row)
}

func (r *PgxReminderRepository) Read(
	ctx context.Context,
	options reminder.ReadOptions,
) (reminders []reminder.Reminder, err error) {
	var statusIn []string
	if options.StatusIn.IsPresent {
		statusIn = make([]string, len(options.StatusIn.Value))
		for ix, status := range options.StatusIn.Value {
			statusIn[ix] = status.String()
		}
	}

	rows, err := r.db.Query(
		ctx,
		readReminders,
		!options.UserIDEquals.IsPresent,
		string(options.UserIDEquals.Value),
		!options.StatusIn.IsPresent,
		statusIn,
		!options.DescriptionContains.IsPresent,
		escapeLike(options.DescriptionContains.Value),
		!options.AtBefore.IsPresent,
		options.AtBefore.Value,
		options.OrderBy == reminder.OrderByAtAsc,
		!options.Limit.IsPresent,
		int64(options.Limit.Value),
	)
	if err != nil {
		return reminders, err
	}
	defer rows.Close()

	reminders = make([]reminder.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return reminders, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *PgxReminderRepository) Update(
	ctx context.Context,
	input reminder.UpdateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		updateReminder,
		int64(input.ID),
		input.DoTaskDescriptionUpdate,
		input.TaskDescription,
		input.DoAtUpdate,
		input.At,
		input.DoStatusUpdate,
		input.Status.String(),
		!input.UserIDEquals.IsPresent,
		string(input.UserIDEquals.Value),
		!input.StatusEquals.IsPresent,
		input.StatusEquals.Value.String(),
	)
	rem, err = scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return rem, reminder.ErrReminderDoesNotExist
	}
	return rem, err
}

func (r *PgxReminderRepository) Delete(ctx context.Context, input reminder.DeleteInput) error {
	tag, err := r.db.Exec(
		ctx,
		deleteReminder,
		int64(input.ID),
		!input.UserIDEquals.IsPresent,
		string(input.UserIDEquals.Value),
		!input.StatusEquals.IsPresent,
		input.StatusEquals.Value.String(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return reminder.ErrReminderDoesNotExist
	}
	return nil
}

func scanReminder(row pgx.Row) (rem reminder.Reminder, err error) {
	var (
		id        int64
		userID    string
		status    string
		at        time.Time
		createdAt time.Time
	)
	if err := row.Scan(&id, &userID, &rem.TaskDescription, &at, &status, &createdAt); err != nil {
		return rem, err
	}
	rem.Status, err = reminder.ParseStatus(status)
	if err != nil {
		return rem, err
	}
	rem.ID = reminder.ID(id)
	rem.UserID = reminder.UserID(userID)
	rem.At = at.UTC()
	rem.CreatedAt = createdAt.UTC()
	return rem, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(keyword string) string {
	return likeEscaper.Replace(keyword)
}
