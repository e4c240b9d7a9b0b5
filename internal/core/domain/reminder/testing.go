package reminder

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// FakeRepository keeps reminders in memory and applies ReadOptions the same
// way the Postgres repository does.
type FakeRepository struct {
	Reminders []Reminder

	CreateError     error
	ReadError       error
	UpdateError     error
	UpdateErrorFunc func(input UpdateInput) error
	DeleteError     error

	Created  []CreateInput
	ReadWith []ReadOptions
	Updated  []UpdateInput
	Deleted  []DeleteInput

	lastID ID
	lock   sync.Mutex
}

func NewFakeRepository(reminders ...Reminder) *FakeRepository {
	repo := &FakeRepository{}
	for _, r := range reminders {
		if r.ID > repo.lastID {
			repo.lastID = r.ID
		}
		repo.Reminders = append(repo.Reminders, r)
	}
	return repo
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.CreateError != nil {
		return rem, r.CreateError
	}
	r.Created = append(r.Created, input)
	r.lastID++
	rem = Reminder{
		ID:              r.lastID,
		UserID:          input.UserID,
		TaskDescription: input.TaskDescription,
		At:              input.At,
		Status:          input.Status,
		CreatedAt:       input.CreatedAt,
	}
	r.Reminders = append(r.Reminders, rem)
	return rem, nil
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Reminder, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ReadWith = append(r.ReadWith, options)
	if r.ReadError != nil {
		return nil, r.ReadError
	}

	reminders := make([]Reminder, 0)
	for _, rem := range r.Reminders {
		if matches(rem, options) {
			reminders = append(reminders, rem)
		}
	}
	switch options.OrderBy {
	case OrderByAtAsc:
		sort.SliceStable(reminders, func(i, j int) bool {
			if reminders[i].At.Equal(reminders[j].At) {
				return reminders[i].ID < reminders[j].ID
			}
			return reminders[i].At.Before(reminders[j].At)
		})
	case OrderByIDAsc:
		sort.SliceStable(reminders, func(i, j int) bool { return reminders[i].ID < reminders[j].ID })
	}
	if options.Limit.IsPresent && uint(len(reminders)) > options.Limit.Value {
		reminders = reminders[:options.Limit.Value]
	}
	return reminders, nil
}

func (r *FakeRepository) Update(ctx context.Context, input UpdateInput) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Updated = append(r.Updated, input)
	if r.UpdateError != nil {
		return rem, r.UpdateError
	}
	if r.UpdateErrorFunc != nil {
		if err := r.UpdateErrorFunc(input); err != nil {
			return rem, err
		}
	}

	for ix, stored := range r.Reminders {
		if stored.ID != input.ID {
			continue
		}
		if input.UserIDEquals.IsPresent && stored.UserID != input.UserIDEquals.Value {
			break
		}
		if input.StatusEquals.IsPresent && stored.Status != input.StatusEquals.Value {
			break
		}
		if input.DoTaskDescriptionUpdate {
			stored.TaskDescription = input.TaskDescription
		}
		if input.DoAtUpdate {
			stored.At = input.At
		}
		if input.DoStatusUpdate {
			stored.Status = input.Status
		}
		r.Reminders[ix] = stored
		return stored, nil
	}
	return rem, ErrReminderDoesNotExist
}

func (r *FakeRepository) Delete(ctx context.Context, input DeleteInput) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Deleted = append(r.Deleted, input)
	if r.DeleteError != nil {
		return r.DeleteError
	}

	for ix, stored := range r.Reminders {
		if stored.ID != input.ID {
			continue
		}
		if input.UserIDEquals.IsPresent && stored.UserID != input.UserIDEquals.Value {
			break
		}
		if input.StatusEquals.IsPresent && stored.Status != input.StatusEquals.Value {
			break
		}
		r.Reminders = append(r.Reminders[:ix], r.Reminders[ix+1:]...)
		return nil
	}
	return ErrReminderDoesNotExist
}

// Get returns a stored reminder by ID, it is meant for assertions.
func (r *FakeRepository) Get(id ID) (Reminder, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, stored := range r.Reminders {
		if stored.ID == id {
			return stored, true
		}
	}
	return Reminder{}, false
}

func matches(rem Reminder, options ReadOptions) bool {
	if options.UserIDEquals.IsPresent && rem.UserID != options.UserIDEquals.Value {
		return false
	}
	if options.StatusIn.IsPresent {
		found := false
		for _, status := range options.StatusIn.Value {
			if rem.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if options.DescriptionContains.IsPresent {
		description := strings.ToLower(rem.TaskDescription)
		keyword := strings.ToLower(options.DescriptionContains.Value)
		if !strings.Contains(description, keyword) {
			return false
		}
	}
	if options.AtBefore.IsPresent && rem.At.After(options.AtBefore.Value) {
		return false
	}
	return true
}

type Delivery struct {
	UserID UserID
	Text   string
}

type FakeMessenger struct {
	Delivered []Delivery
	Attempted []Delivery
	Error     error
	ErrorFunc func(userID UserID, text string) error
	Delay     time.Duration
	lock      sync.Mutex
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{}
}

func (m *FakeMessenger) Deliver(ctx context.Context, userID UserID, text string) error {
	m.lock.Lock()
	m.Attempted = append(m.Attempted, Delivery{UserID: userID, Text: text})
	m.lock.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Error != nil {
		return m.Error
	}
	if m.ErrorFunc != nil {
		if err := m.ErrorFunc(userID, text); err != nil {
			return err
		}
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.Delivered = append(m.Delivered, Delivery{UserID: userID, Text: text})
	return nil
}

func (m *FakeMessenger) Texts() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	texts := make([]string, 0, len(m.Delivered))
	for _, d := range m.Delivered {
		texts = append(texts, d.Text)
	}
	return texts
}

// FakeTimeResolver resolves expressions from a fixed table and fails for
// everything else.
type FakeTimeResolver struct {
	Resolved map[string]time.Time
	Calls    []string
	lock     sync.Mutex
}

func NewFakeTimeResolver(resolved map[string]time.Time) *FakeTimeResolver {
	if resolved == nil {
		resolved = make(map[string]time.Time)
	}
	return &FakeTimeResolver{Resolved: resolved}
}

func (r *FakeTimeResolver) Resolve(expression string, reference time.Time) (time.Time, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Calls = append(r.Calls, expression)
	at, ok := r.Resolved[expression]
	if !ok {
		return time.Time{}, ErrTimeNotResolved
	}
	return at, nil
}
