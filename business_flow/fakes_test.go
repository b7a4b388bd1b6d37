package businessflow

import (
	"context"
	"errors"
	"sort"

	"github.com/eduvia/eduvia-api/matching"
	"github.com/eduvia/eduvia-api/models"
	"github.com/eduvia/eduvia-api/repository"
	"github.com/eduvia/eduvia-api/utils"
)

var errFakeMissingRow = errors.New("row not found")

// In-memory repository fakes. They keep insertion order, assign IDs the way
// the database would, and implement only the filter fields the flows use.

type fakeUserRepo struct {
	users  []*models.User
	nextID uint
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1}
}

func (r *fakeUserRepo) add(u models.User) *models.User {
	u.ID = r.nextID
	r.nextID++
	stored := u
	r.users = append(r.users, &stored)
	return &stored
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.User
	for _, u := range r.users {
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) SaveBatch(ctx context.Context, users []*models.User) error {
	for _, u := range users {
		if err := r.Save(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *fakeUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := r.ByFilter(ctx, models.UserFilter{Email: &email}, "", 1, 0)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *fakeUserRepo) ByUUID(ctx context.Context, uuid string) (*models.User, error) {
	for _, u := range r.users {
		if u.UUID.String() == uuid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListIDsByAudience(ctx context.Context, criterion matching.Criterion) ([]uint, error) {
	if r.err != nil {
		return nil, r.err
	}
	var ids []uint
	for _, u := range r.users {
		if len(criterion.Branches) > 0 {
			if u.Branch == nil || !containsString(criterion.Branches, *u.Branch) {
				continue
			}
		}
		if len(criterion.Semesters) > 0 {
			if u.Semester == nil || !containsInt(criterion.Semesters, *u.Semester) {
				continue
			}
		}
		if criterion.Year != nil {
			if u.YearOfStudy == nil || *u.YearOfStudy != *criterion.Year {
				continue
			}
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	for i, u := range r.users {
		if u.ID == user.ID {
			stored := *user
			r.users[i] = &stored
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, userID uint, role string) error {
	for _, u := range r.users {
		if u.ID == userID {
			u.Role = role
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, userID uint, update models.User) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			u.College = update.College
			u.Mobile = update.Mobile
			u.Branch = update.Branch
			u.Semester = update.Semester
			u.YearOfStudy = update.YearOfStudy
			u.ProgramType = update.ProgramType
			u.ProfileCompleted = true
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) CountByBranch(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, u := range r.users {
		branch := ""
		if u.Branch != nil {
			branch = *u.Branch
		}
		out[branch]++
	}
	return out, nil
}

type fakeNoteRepo struct {
	notes  []*models.Note
	nextID uint
	err    error
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{nextID: 1}
}

func (r *fakeNoteRepo) ByID(ctx context.Context, id uint) (*models.Note, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, n := range r.notes {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) ByFilter(ctx context.Context, filter models.NoteFilter, orderBy string, limit, offset int) ([]*models.Note, error) {
	out := make([]*models.Note, 0, len(r.notes))
	for _, n := range r.notes {
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeNoteRepo) Save(ctx context.Context, note *models.Note) error {
	if r.err != nil {
		return r.err
	}
	note.ID = r.nextID
	r.nextID++
	stored := *note
	r.notes = append(r.notes, &stored)
	return nil
}

func (r *fakeNoteRepo) SaveBatch(ctx context.Context, notes []*models.Note) error {
	for _, n := range notes {
		if err := r.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uint) error {
	for i, n := range r.notes {
		if n.ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, filter models.NoteFilter) (int64, error) {
	return int64(len(r.notes)), nil
}

func (r *fakeNoteRepo) ListNewestFirst(ctx context.Context) ([]*models.Note, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.Note, 0, len(r.notes))
	for i := len(r.notes) - 1; i >= 0; i-- {
		copied := *r.notes[i]
		out = append(out, &copied)
	}
	return out, nil
}

type fakeNotificationRepo struct {
	rows     []*models.Notification
	nextID   uint
	batchErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) ByID(ctx context.Context, id uint) (*models.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepo) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range r.rows {
		if filter.UserID != nil && n.UserID != *filter.UserID {
			continue
		}
		if filter.Read != nil && n.Read != *filter.Read {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeNotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	n.ID = r.nextID
	r.nextID++
	stored := *n
	r.rows = append(r.rows, &stored)
	return nil
}

func (r *fakeNotificationRepo) SaveBatch(ctx context.Context, ns []*models.Notification) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	for _, n := range ns {
		if err := r.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id uint) error {
	for i, n := range r.rows {
		if n.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	rows, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	rows, err := r.ByFilter(ctx, models.NotificationFilter{UserID: &userID}, "", 0, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uint) error {
	for _, n := range r.rows {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID uint) error {
	for _, n := range r.rows {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

// recipients returns the user IDs that received a row, in insertion order
func (r *fakeNotificationRepo) recipients() []uint {
	out := make([]uint, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, n.UserID)
	}
	return out
}

type fakeLostFoundRepo struct {
	items  []*models.LostFoundItem
	nextID uint
}

func newFakeLostFoundRepo() *fakeLostFoundRepo {
	return &fakeLostFoundRepo{nextID: 1}
}

func (r *fakeLostFoundRepo) ByID(ctx context.Context, id uint) (*models.LostFoundItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLostFoundRepo) ByFilter(ctx context.Context, filter models.LostFoundFilter, orderBy string, limit, offset int) ([]*models.LostFoundItem, error) {
	out := make([]*models.LostFoundItem, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		copied := *r.items[i]
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeLostFoundRepo) Save(ctx context.Context, item *models.LostFoundItem) error {
	item.ID = r.nextID
	r.nextID++
	stored := *item
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeLostFoundRepo) SaveBatch(ctx context.Context, items []*models.LostFoundItem) error {
	for _, item := range items {
		if err := r.Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLostFoundRepo) Delete(ctx context.Context, id uint) error {
	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeLostFoundRepo) Count(ctx context.Context, filter models.LostFoundFilter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeLostFoundRepo) UpdateStatus(ctx context.Context, itemID uint, status string) (*models.LostFoundItem, error) {
	for _, item := range r.items {
		if item.ID == itemID {
			item.Status = status
			copied := *item
			return &copied, nil
		}
	}
	return nil, errFakeMissingRow
}

type fakeEventRepo struct {
	events []*models.Event
	nextID uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1}
}

func (r *fakeEventRepo) ByID(ctx context.Context, id uint) (*models.Event, error) {
	for _, e := range r.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) ByFilter(ctx context.Context, filter models.EventFilter, orderBy string, limit, offset int) ([]*models.Event, error) {
	out := make([]*models.Event, 0, len(r.events))
	for _, e := range r.events {
		copied := *e
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *fakeEventRepo) Save(ctx context.Context, e *models.Event) error {
	e.ID = r.nextID
	r.nextID++
	stored := *e
	r.events = append(r.events, &stored)
	return nil
}

func (r *fakeEventRepo) SaveBatch(ctx context.Context, es []*models.Event) error {
	for _, e := range es {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uint) error {
	for i, e := range r.events {
		if e.ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeEventRepo) Count(ctx context.Context, filter models.EventFilter) (int64, error) {
	return int64(len(r.events)), nil
}

func (r *fakeEventRepo) ListUpcoming(ctx context.Context) ([]*models.Event, error) {
	now := utils.UTCNow()
	all, _ := r.ByFilter(ctx, models.EventFilter{}, "starts_at ASC", 0, 0)
	var out []*models.Event
	for _, e := range all {
		if e.EndsAt.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	for i, e := range r.events {
		if e.ID == event.ID {
			stored := *event
			r.events[i] = &stored
			return nil
		}
	}
	return nil
}

type fakeTimetableRepo struct {
	entries []*models.TimetableEntry
	nextID  uint
}

func newFakeTimetableRepo() *fakeTimetableRepo {
	return &fakeTimetableRepo{nextID: 1}
}

func (r *fakeTimetableRepo) ByID(ctx context.Context, id uint) (*models.TimetableEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTimetableRepo) ByFilter(ctx context.Context, filter models.TimetableFilter, orderBy string, limit, offset int) ([]*models.TimetableEntry, error) {
	var out []*models.TimetableEntry
	for _, e := range r.entries {
		if filter.Course != nil && e.Course != *filter.Course {
			continue
		}
		if filter.Day != nil && e.Day != *filter.Day {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTimetableRepo) Save(ctx context.Context, e *models.TimetableEntry) error {
	e.ID = r.nextID
	r.nextID++
	stored := *e
	r.entries = append(r.entries, &stored)
	return nil
}

func (r *fakeTimetableRepo) SaveBatch(ctx context.Context, es []*models.TimetableEntry) error {
	for _, e := range es {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTimetableRepo) Delete(ctx context.Context, id uint) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeTimetableRepo) Count(ctx context.Context, filter models.TimetableFilter) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *fakeTimetableRepo) Update(ctx context.Context, entry *models.TimetableEntry) error {
	for i, e := range r.entries {
		if e.ID == entry.ID {
			stored := *entry
			r.entries[i] = &stored
			return nil
		}
	}
	return nil
}

type fakeChatRepo struct {
	sessions []*models.ChatSession
	messages []*models.ChatMessage
	nextID   uint
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{nextID: 1}
}

func (r *fakeChatRepo) ByID(ctx context.Context, id uint) (*models.ChatSession, error) {
	for _, s := range r.sessions {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) ByFilter(ctx context.Context, filter models.ChatSessionFilter, orderBy string, limit, offset int) ([]*models.ChatSession, error) {
	out := make([]*models.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeChatRepo) Save(ctx context.Context, s *models.ChatSession) error {
	s.ID = r.nextID
	r.nextID++
	stored := *s
	r.sessions = append(r.sessions, &stored)
	return nil
}

func (r *fakeChatRepo) SaveBatch(ctx context.Context, ss []*models.ChatSession) error {
	for _, s := range ss {
		if err := r.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, id uint) error {
	return r.DeleteSession(ctx, id)
}

func (r *fakeChatRepo) Count(ctx context.Context, filter models.ChatSessionFilter) (int64, error) {
	return int64(len(r.sessions)), nil
}

func (r *fakeChatRepo) ListSessionsByUser(ctx context.Context, userID uint) ([]*models.ChatSession, error) {
	var out []*models.ChatSession
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if r.sessions[i].UserID == userID {
			copied := *r.sessions[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, sessionID uint) ([]*models.ChatMessage, error) {
	var out []*models.ChatMessage
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	msg.ID = r.nextID
	r.nextID++
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeChatRepo) TouchSession(ctx context.Context, sessionID uint) error {
	for _, s := range r.sessions {
		if s.ID == sessionID {
			s.UpdatedAt = utils.UTCNow()
		}
	}
	return nil
}

func (r *fakeChatRepo) DeleteSession(ctx context.Context, sessionID uint) error {
	for i, s := range r.sessions {
		if s.ID == sessionID {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			break
		}
	}
	var kept []*models.ChatMessage
	for _, m := range r.messages {
		if m.SessionID != sessionID {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

// fakeDispatch records fan-out requests instead of writing rows
type fakeDispatch struct {
	calls []dispatchCall
	err   error
}

type dispatchCall struct {
	criterion        matching.Criterion
	title            string
	notificationType string
}

func (d *fakeDispatch) Dispatch(ctx context.Context, criterion matching.Criterion, title, description, notificationType string, link *string) (int, error) {
	d.calls = append(d.calls, dispatchCall{criterion: criterion, title: title, notificationType: notificationType})
	if d.err != nil {
		return 0, d.err
	}
	return 1, nil
}

func (d *fakeDispatch) Broadcast(ctx context.Context, title, description, notificationType string, link *string) (int, error) {
	return d.Dispatch(ctx, matching.Criterion{}, title, description, notificationType, link)
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
