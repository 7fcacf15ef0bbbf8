package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/justatarek/ergodnc/internal/filters"
	"github.com/justatarek/ergodnc/internal/models"
	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/utils"
)

/*
   In-memory doubles for the repository and notification boundaries. They
   hold plain maps behind a mutex so the concurrency tests can hammer them
   from several goroutines.
*/

type fakeOfficeRepo struct {
	mu      sync.Mutex
	offices map[uuid.UUID]*models.Office
	deleted map[uuid.UUID]bool
	updates int
}

func newFakeOfficeRepo(offices ...*models.Office) *fakeOfficeRepo {
	r := &fakeOfficeRepo{
		offices: map[uuid.UUID]*models.Office{},
		deleted: map[uuid.UUID]bool{},
	}
	for _, o := range offices {
		r.offices[o.ID] = o
	}
	return r
}

func (r *fakeOfficeRepo) WithTx(pgx.Tx) repositories.OfficeRepository { return r }

func (r *fakeOfficeRepo) Create(_ context.Context, o *models.Office) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offices[o.ID] = o
	return nil
}

func (r *fakeOfficeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Office, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleted[id] {
		return nil, nil
	}
	return r.offices[id], nil
}

func (r *fakeOfficeRepo) Update(_ context.Context, o *models.Office) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offices[o.ID] = o
	r.updates++
	return nil
}

func (r *fakeOfficeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted[id] = true
	return nil
}

func (r *fakeOfficeRepo) List(context.Context, filters.OfficeQuery, int) ([]*models.Office, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Office
	for id, o := range r.offices {
		if !r.deleted[id] {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*models.Reservation
}

func newFakeReservationRepo(reservations ...*models.Reservation) *fakeReservationRepo {
	r := &fakeReservationRepo{reservations: map[uuid.UUID]*models.Reservation{}}
	for _, rsv := range reservations {
		r.reservations[rsv.ID] = rsv
	}
	return r
}

func (r *fakeReservationRepo) Create(_ context.Context, rsv *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[rsv.ID] = rsv
	return nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reservations[id], nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rsv, ok := r.reservations[id]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	rsv.Status = status
	return nil
}

func (r *fakeReservationRepo) ExistsActiveBetween(_ context.Context, officeID uuid.UUID, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rsv := range r.reservations {
		if rsv.OfficeID == officeID &&
			rsv.Status == models.ReservationStatusActive &&
			rsv.OverlapsRange(models.Date(from), models.Date(to)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) ExistsActive(_ context.Context, officeID uuid.UUID) (bool, error) {
	n, _ := r.CountActive(context.Background(), officeID)
	return n > 0, nil
}

func (r *fakeReservationRepo) CountActive(_ context.Context, officeID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rsv := range r.reservations {
		if rsv.OfficeID == officeID && rsv.Status == models.ReservationStatusActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) List(_ context.Context, f repositories.ReservationFilter, _ int) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reservation
	for _, rsv := range r.reservations {
		if f.VisitorID != nil && rsv.UserID != *f.VisitorID {
			continue
		}
		if f.OfficeID != nil && rsv.OfficeID != *f.OfficeID {
			continue
		}
		if f.Status != nil && rsv.Status != *f.Status {
			continue
		}
		out = append(out, rsv)
	}
	return out, nil
}

func (r *fakeReservationRepo) ListActiveStartingOn(_ context.Context, date time.Time) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := models.Date(date)
	var out []*models.Reservation
	for _, rsv := range r.reservations {
		if rsv.Status == models.ReservationStatusActive && rsv.StartDate.Equal(day) {
			out = append(out, rsv)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) all() []*models.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Reservation
	for _, rsv := range r.reservations {
		out = append(out, rsv)
	}
	return out
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) ListAdmins(context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.IsAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

// keyedLocker gives the real mutual-exclusion semantics: per-key channel
// semaphores with a bounded wait.
type keyedLocker struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{sems: map[string]chan struct{}{}}
}

func (l *keyedLocker) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.sems[key] = s
	}
	return s
}

func (l *keyedLocker) Acquire(_ context.Context, key string, maxWait time.Duration) (repositories.ReleaseFunc, error) {
	s := l.sem(key)
	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-time.After(maxWait):
		return nil, utils.ErrLockTimeout
	}
}

// stubLocker fails or succeeds unconditionally.
type stubLocker struct {
	err error
}

func (l *stubLocker) Acquire(context.Context, string, time.Duration) (repositories.ReleaseFunc, error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() {}, nil
}

type fakeNotifier struct {
	mu              sync.Mutex
	created         int
	starting        int
	pendingApproval int
	lastAdmins      []*models.User
}

func (n *fakeNotifier) ReservationCreated(_, _ *models.User, _ *models.Reservation, _ *models.Office) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created++
}

func (n *fakeNotifier) ReservationStarting(_, _ *models.User, _ *models.Reservation, _ *models.Office) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.starting++
}

func (n *fakeNotifier) OfficePendingApproval(admins []*models.User, _ *models.Office) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingApproval++
	n.lastAdmins = admins
}

func (n *fakeNotifier) counts() (created, starting, pendingApproval int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.created, n.starting, n.pendingApproval
}

type fakeTagRepo struct {
	tags         map[uuid.UUID]*models.Tag
	attached     map[uuid.UUID][]uuid.UUID
	replaceCalls int
}

func newFakeTagRepo(tags ...*models.Tag) *fakeTagRepo {
	r := &fakeTagRepo{
		tags:     map[uuid.UUID]*models.Tag{},
		attached: map[uuid.UUID][]uuid.UUID{},
	}
	for _, t := range tags {
		r.tags[t.ID] = t
	}
	return r
}

func (r *fakeTagRepo) WithTx(pgx.Tx) repositories.TagRepository { return r }

func (r *fakeTagRepo) ListAll(context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range r.tags {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTagRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) ListByOfficeID(_ context.Context, officeID uuid.UUID) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, id := range r.attached[officeID] {
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) AttachToOffice(_ context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error {
	r.attached[officeID] = append(r.attached[officeID], tagIDs...)
	return nil
}

func (r *fakeTagRepo) ReplaceForOffice(_ context.Context, officeID uuid.UUID, tagIDs []uuid.UUID) error {
	r.replaceCalls++
	r.attached[officeID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

type fakeImageRepo struct {
	images map[uuid.UUID]*models.Image
}

func newFakeImageRepo(images ...*models.Image) *fakeImageRepo {
	r := &fakeImageRepo{images: map[uuid.UUID]*models.Image{}}
	for _, img := range images {
		r.images[img.ID] = img
	}
	return r
}

func (r *fakeImageRepo) Create(_ context.Context, img *models.Image) error {
	r.images[img.ID] = img
	return nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Image, error) {
	return r.images[id], nil
}

func (r *fakeImageRepo) ListByOwner(_ context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) ([]*models.Image, error) {
	var out []*models.Image
	for _, img := range r.images {
		if img.OwnerKind == kind && img.OwnerID == ownerID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *fakeImageRepo) CountByOwner(ctx context.Context, kind models.ImageOwnerKind, ownerID uuid.UUID) (int, error) {
	imgs, _ := r.ListByOwner(ctx, kind, ownerID)
	return len(imgs), nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.images, id)
	return nil
}

type fakeBlobStorage struct {
	puts    []string
	deletes []string
}

func (b *fakeBlobStorage) Put(_ context.Context, path string, _ io.Reader) error {
	b.puts = append(b.puts, path)
	return nil
}

func (b *fakeBlobStorage) Delete(_ context.Context, path string) error {
	b.deletes = append(b.deletes, path)
	return nil
}

func (b *fakeBlobStorage) URLFor(path string) string { return "http://blobs.test/" + path }

// passthroughTx satisfies TxRunner without a database.
func passthroughTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
