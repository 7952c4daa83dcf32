package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"stagepass/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID        map[string]*domain.Event
	nextID      int
	createErr   error
	listErr     error
	adjustErr   error
	adjustCalls []int // deltas passed to AdjustAvailableSeats, in order
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.CreatedBy == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListAll(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) ListApproved(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var all []*domain.Event
	for _, e := range f.byID {
		if e.ApprovalStatus == domain.EventStatusApproved {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) SetApprovalStatus(ctx context.Context, id, status string) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.ApprovalStatus = status
	return e, nil
}

func (f *fakeEventRepo) SetImageURL(ctx context.Context, id, url string) error {
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.ImageURL = url
	return nil
}

func (f *fakeEventRepo) AdjustAvailableSeats(ctx context.Context, id string, delta int) (*domain.Event, error) {
	f.adjustCalls = append(f.adjustCalls, delta)
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := e.AvailableSeats + delta
	if next < 0 || next > e.TotalSeats {
		return nil, fmt.Errorf("%w: seat adjustment out of bounds", domain.ErrInvalidInput)
	}
	e.AvailableSeats = next
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeOrderRepo is an in-memory OrderRepository for tests.
type fakeOrderRepo struct {
	orders    []*domain.Order
	nextID    int
	createErr error
	listErr   error
	setErr    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextID: 1}
}

func (f *fakeOrderRepo) add(o *domain.Order) *domain.Order {
	if o.ID == "" {
		o.ID = fmt.Sprintf("ord-%d", f.nextID)
		f.nextID++
	}
	f.orders = append(f.orders, o)
	return o
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(o)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListInRange(ctx context.Context, from, to time.Time, status string, eventIDs []string) ([]*domain.Order, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	scope := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		scope[id] = true
	}
	var out []*domain.Order
	for _, o := range f.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		if len(eventIDs) > 0 && !scope[o.EventID] {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	for _, o := range f.orders {
		if o.ID == id {
			o.Status = status
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	roles     map[string][]string // userID -> roleIDs
	nextID    int
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), roles: make(map[string][]string), nextID: 1}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextID)
		f.nextID++
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

// fakeRoleRepo serves the three fixed application roles.
type fakeRoleRepo struct {
	byUser map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byUser: make(map[string][]*domain.Role)}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	switch code {
	case domain.RoleAdmin, domain.RoleOrganizer, domain.RoleUser:
		return &domain.Role{ID: "role-" + code, Code: code}, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	if roles, ok := f.byUser[userID]; ok {
		return roles, nil
	}
	return []*domain.Role{}, nil
}

// fakeScheduleRepo is an in-memory ScheduleRepository for tests.
type fakeScheduleRepo struct {
	schedules []*domain.AuditoriumSchedule
	nextID    int
	createErr error
	listErr   error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{nextID: 1}
}

func (f *fakeScheduleRepo) add(s *domain.AuditoriumSchedule) *domain.AuditoriumSchedule {
	if s.ID == "" {
		s.ID = fmt.Sprintf("sch-%d", f.nextID)
		f.nextID++
	}
	f.schedules = append(f.schedules, s)
	return s
}

func (f *fakeScheduleRepo) Create(ctx context.Context, s *domain.AuditoriumSchedule) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(s)
	return nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id string) (*domain.AuditoriumSchedule, error) {
	for _, s := range f.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeScheduleRepo) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.AuditoriumSchedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.AuditoriumSchedule
	for _, s := range f.schedules {
		if !s.StartTime.After(to) && !s.EndTime.Before(from) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeScheduleRepo) HasOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	for _, s := range f.schedules {
		if s.StartTime.Before(end) && s.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	for i, s := range f.schedules {
		if s.ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeUtilizationRepo is an in-memory UtilizationRepository keyed by day.
type fakeUtilizationRepo struct {
	byDay     map[string]*domain.Utilization
	nextID    int
	upserts   int
	upsertErr error
}

func newFakeUtilizationRepo() *fakeUtilizationRepo {
	return &fakeUtilizationRepo{byDay: make(map[string]*domain.Utilization), nextID: 1}
}

func (f *fakeUtilizationRepo) put(u *domain.Utilization) {
	if u.ID == "" {
		u.ID = fmt.Sprintf("util-%d", f.nextID)
		f.nextID++
	}
	f.byDay[u.Day.Format("2006-01-02")] = u
}

func (f *fakeUtilizationRepo) GetByDay(ctx context.Context, day time.Time) (*domain.Utilization, error) {
	if u, ok := f.byDay[day.Format("2006-01-02")]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUtilizationRepo) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Utilization, error) {
	var out []*domain.Utilization
	for _, u := range f.byDay {
		if !u.Day.Before(from) && !u.Day.After(to) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (f *fakeUtilizationRepo) Upsert(ctx context.Context, u *domain.Utilization) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.put(u)
	return nil
}

// fakeWaitlistRepo is an in-memory WaitlistRepository for tests.
type fakeWaitlistRepo struct {
	entries   []*domain.WaitlistEntry
	nextID    int
	createErr error
	markErr   error
}

func newFakeWaitlistRepo() *fakeWaitlistRepo {
	return &fakeWaitlistRepo{nextID: 1}
}

func (f *fakeWaitlistRepo) add(e *domain.WaitlistEntry) *domain.WaitlistEntry {
	if e.ID == "" {
		e.ID = fmt.Sprintf("wl-%d", f.nextID)
		f.nextID++
	}
	f.entries = append(f.entries, e)
	return e
}

func (f *fakeWaitlistRepo) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(e)
	return nil
}

func (f *fakeWaitlistRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	for _, e := range f.entries {
		if e.EventID == eventID && e.UserID == userID {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWaitlistRepo) ListUnnotified(ctx context.Context, eventID string, limit int) ([]*domain.WaitlistEntry, error) {
	var out []*domain.WaitlistEntry
	for _, e := range f.entries {
		if e.EventID == eventID && !e.Notified {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeWaitlistRepo) Position(ctx context.Context, entryID string) (int, error) {
	var target *domain.WaitlistEntry
	for _, e := range f.entries {
		if e.ID == entryID {
			target = e
			break
		}
	}
	if target == nil {
		return 0, domain.ErrNotFound
	}
	pos := 0
	for _, e := range f.entries {
		if e.EventID == target.EventID && !e.CreatedAt.After(target.CreatedAt) {
			pos++
		}
	}
	return pos, nil
}

func (f *fakeWaitlistRepo) MarkNotified(ctx context.Context, entryID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, e := range f.entries {
		if e.ID == entryID {
			e.Notified = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeWaitlistRepo) Delete(ctx context.Context, eventID, userID string) error {
	for i, e := range f.entries {
		if e.EventID == eventID && e.UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeEmailService records domain emails; configurable errors per kind.
type fakeEmailService struct {
	confirmations []*domain.OrderConfirmationEmailData
	waitlistSends []*domain.WaitlistSeatAvailableEmailData
	confirmErr    error
	waitlistErr   error
	failForEmail  string // if set, SendWaitlistSeatAvailable to this address fails
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{}
}

func (f *fakeEmailService) SendOrderConfirmation(ctx context.Context, data *domain.OrderConfirmationEmailData) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmations = append(f.confirmations, data)
	return nil
}

func (f *fakeEmailService) SendWaitlistSeatAvailable(ctx context.Context, data *domain.WaitlistSeatAvailableEmailData) error {
	if f.waitlistErr != nil {
		return f.waitlistErr
	}
	if f.failForEmail != "" && data.Email == f.failForEmail {
		return fmt.Errorf("smtp rejected %s", data.Email)
	}
	f.waitlistSends = append(f.waitlistSends, data)
	return nil
}

// fakeRenderer captures the documents handed to it and writes a PDF-looking prefix.
type fakeRenderer struct {
	docs []*domain.ReportDocument
	err  error
}

func (f *fakeRenderer) Render(ctx context.Context, w io.Writer, doc *domain.ReportDocument) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	_, err := w.Write([]byte("%PDF-1.4 fake"))
	return err
}

// fakeWaitlistService records NotifySeatsFreed calls for order tests.
type fakeWaitlistService struct {
	notified map[string]int // eventID -> freed seats total
	err      error
}

func newFakeWaitlistService() *fakeWaitlistService {
	return &fakeWaitlistService{notified: make(map[string]int)}
}

func (f *fakeWaitlistService) Join(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, int, error) {
	return nil, 0, nil
}

func (f *fakeWaitlistService) Leave(ctx context.Context, eventID, userID string) error { return nil }

func (f *fakeWaitlistService) MyPosition(ctx context.Context, eventID, userID string) (int, error) {
	return 0, nil
}

func (f *fakeWaitlistService) NotifySeatsFreed(ctx context.Context, eventID string, freedSeats int) error {
	if f.err != nil {
		return f.err
	}
	f.notified[eventID] += freedSeats
	return nil
}

// fakeHasher is a deterministic PasswordHasher for tests.
type fakeHasher struct {
	saltErr error
	hashErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + salt + ":" + password, nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash == "hashed:"+salt+":"+password {
		return nil
	}
	return fmt.Errorf("password mismatch")
}

// fakeTokenIssuer returns a predictable token string.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

// fakeFileStorage records stored and deleted object keys.
type fakeFileStorage struct {
	stored  map[string]string // key -> content type
	deleted []string
	putErr  error
	delErr  error
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{stored: make(map[string]string)}
}

func (f *fakeFileStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.stored[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (f *fakeFileStorage) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}
