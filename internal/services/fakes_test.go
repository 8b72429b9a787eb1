package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ArowuTest/toolsau-entries-backend/internal/catalog"
	"github.com/ArowuTest/toolsau-entries-backend/internal/models"
	"github.com/ArowuTest/toolsau-entries-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// deepCopy round-trips v through JSON so the store never shares memory
// with callers. Tests use UTC times, which survive the round trip.
func deepCopy[T any](v *T) *T {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return &out
}

type memState struct {
	Users      map[primitive.ObjectID]*models.User
	MajorDraws map[primitive.ObjectID]*models.MajorDraw
	MiniDraws  map[primitive.ObjectID]*models.MiniDraw
	Events     []*models.PaymentEvent
	Orders     []*models.Order
	Referrals  map[primitive.ObjectID]*models.ReferralEvent
	Settings   *models.SystemSettings
}

// memStore is an in-memory stand-in for the collections.
type memStore struct {
	mu    sync.Mutex
	state memState

	// failUserSave makes the next user save fail.
	failUserSave error
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		Users:      map[primitive.ObjectID]*models.User{},
		MajorDraws: map[primitive.ObjectID]*models.MajorDraw{},
		MiniDraws:  map[primitive.ObjectID]*models.MiniDraw{},
		Referrals:  map[primitive.ObjectID]*models.ReferralEvent{},
		Settings:   &models.SystemSettings{RewardsEnabled: true},
	}}
}

func (s *memStore) snapshot() memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memState{
		Users:      map[primitive.ObjectID]*models.User{},
		MajorDraws: map[primitive.ObjectID]*models.MajorDraw{},
		MiniDraws:  map[primitive.ObjectID]*models.MiniDraw{},
		Referrals:  map[primitive.ObjectID]*models.ReferralEvent{},
		Settings:   deepCopy(s.state.Settings),
	}
	for k, v := range s.state.Users {
		snap.Users[k] = deepCopy(v)
	}
	for k, v := range s.state.MajorDraws {
		snap.MajorDraws[k] = deepCopy(v)
	}
	for k, v := range s.state.MiniDraws {
		snap.MiniDraws[k] = deepCopy(v)
	}
	for k, v := range s.state.Referrals {
		snap.Referrals[k] = deepCopy(v)
	}
	for _, e := range s.state.Events {
		snap.Events = append(snap.Events, deepCopy(e))
	}
	for _, o := range s.state.Orders {
		snap.Orders = append(snap.Orders, deepCopy(o))
	}
	return snap
}

func (s *memStore) restore(snap memState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap
}

func (s *memStore) putUser(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Users[u.ID] = deepCopy(u)
	return u
}

func (s *memStore) putMajorDraw(d *models.MajorDraw) *models.MajorDraw {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MajorDraws[d.ID] = deepCopy(d)
	return d
}

func (s *memStore) putMiniDraw(d *models.MiniDraw) *models.MiniDraw {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MiniDraws[d.ID] = deepCopy(d)
	return d
}

func (s *memStore) putReferral(r *models.ReferralEvent) *models.ReferralEvent {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Referrals[r.ID] = deepCopy(r)
	return r
}

func (s *memStore) putOrder(o *models.Order) {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Orders = append(s.state.Orders, deepCopy(o))
}

func (s *memStore) user(id primitive.ObjectID) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepCopy(s.state.Users[id])
}

func (s *memStore) majorDraw(id primitive.ObjectID) *models.MajorDraw {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepCopy(s.state.MajorDraws[id])
}

func (s *memStore) miniDraw(id primitive.ObjectID) *models.MiniDraw {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepCopy(s.state.MiniDraws[id])
}

func (s *memStore) events() []*models.PaymentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PaymentEvent, 0, len(s.state.Events))
	for _, e := range s.state.Events {
		out = append(out, deepCopy(e))
	}
	return out
}

// fakeTx snapshots the store and restores it when fn fails.
type fakeTx struct {
	store     *memStore
	commits   int
	rollbacks int
}

var _ repositories.Transactor = (*fakeTx)(nil)

func (t *fakeTx) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		t.rollbacks++
		return err
	}
	t.commits++
	return nil
}

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.state.Users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return deepCopy(u), nil
}

func (r fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.Users {
		if u.Email == email {
			return deepCopy(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failUserSave; err != nil {
		r.s.failUserSave = nil
		return err
	}
	if _, ok := r.s.state.Users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.s.state.Users[user.ID] = deepCopy(user)
	return nil
}

type fakeMajorDrawRepo struct{ s *memStore }

func (r fakeMajorDrawRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.MajorDraw, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.state.MajorDraws[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return deepCopy(d), nil
}

func (r fakeMajorDrawRepo) FindActive(_ context.Context) (*models.MajorDraw, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.state.MajorDraws {
		if d.Status == models.MajorDrawActive {
			return deepCopy(d), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeMajorDrawRepo) FindByParticipant(_ context.Context, userID primitive.ObjectID) ([]*models.MajorDraw, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.MajorDraw{}
	for _, d := range r.s.state.MajorDraws {
		if d.Entries.Find(userID) != nil {
			out = append(out, deepCopy(d))
		}
	}
	return out, nil
}

func (r fakeMajorDrawRepo) SaveEntries(_ context.Context, draw *models.MajorDraw) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.state.MajorDraws[draw.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	d.Entries = *deepCopy(&draw.Entries)
	return nil
}

type fakeMiniDrawRepo struct{ s *memStore }

func (r fakeMiniDrawRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.MiniDraw, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.state.MiniDraws[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return deepCopy(d), nil
}

func (r fakeMiniDrawRepo) FindByParticipant(_ context.Context, userID primitive.ObjectID) ([]*models.MiniDraw, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.MiniDraw{}
	for _, d := range r.s.state.MiniDraws {
		if d.Entries.Find(userID) != nil {
			out = append(out, deepCopy(d))
		}
	}
	return out, nil
}

func (r fakeMiniDrawRepo) SaveEntries(_ context.Context, draw *models.MiniDraw) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.state.MiniDraws[draw.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	c := deepCopy(draw)
	d.Entries = c.Entries
	d.TotalEntries = c.TotalEntries
	d.IsOpenForEntries = c.IsOpenForEntries
	if c.ClosedAt != nil {
		d.ClosedAt = c.ClosedAt
	}
	return nil
}

func (r fakeMiniDrawRepo) SaveOutcome(_ context.Context, draw *models.MiniDraw) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.state.MiniDraws[draw.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	c := deepCopy(draw)
	d.Status = c.Status
	d.IsOpenForEntries = c.IsOpenForEntries
	d.Winner = c.Winner
	return nil
}

type fakeEventRepo struct{ s *memStore }

func (r fakeEventRepo) Create(_ context.Context, event *models.PaymentEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.s.state.Events = append(r.s.state.Events, deepCopy(event))
	return nil
}

func (r fakeEventRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.PaymentEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.PaymentEvent{}
	for _, e := range r.s.state.Events {
		if e.UserID == userID {
			out = append(out, deepCopy(e))
		}
	}
	return out, nil
}

type fakeOrderRepo struct{ s *memStore }

func (r fakeOrderRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Order{}
	for _, o := range r.s.state.Orders {
		if o.UserID == userID {
			out = append(out, deepCopy(o))
		}
	}
	return out, nil
}

type fakeReferralRepo struct{ s *memStore }

func (r fakeReferralRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.ReferralEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref, ok := r.s.state.Referrals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return deepCopy(ref), nil
}

func (r fakeReferralRepo) FindByReferrer(_ context.Context, referrerID primitive.ObjectID) ([]*models.ReferralEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.ReferralEvent{}
	for _, ref := range r.s.state.Referrals {
		if ref.ReferrerID == referrerID {
			out = append(out, deepCopy(ref))
		}
	}
	return out, nil
}

func (r fakeReferralRepo) Update(_ context.Context, event *models.ReferralEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.Referrals[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.s.state.Referrals[event.ID] = deepCopy(event)
	return nil
}

type fakeSettingsRepo struct{ s *memStore }

func (r fakeSettingsRepo) GetSettings(_ context.Context) (*models.SystemSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return deepCopy(r.s.state.Settings), nil
}

func (r fakeSettingsRepo) UpdateSettings(_ context.Context, settings *models.SystemSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.Settings = deepCopy(settings)
	return nil
}

type fakeFlags struct {
	enabled bool
	message string
	err     error
}

func (f fakeFlags) RewardsStatus(context.Context) (bool, string, error) {
	return f.enabled, f.message, f.err
}

type fakePromo struct {
	multiplier catalog.PromoMultiplier
	active     bool
}

func (f fakePromo) ActivePromo(context.Context) (catalog.PromoMultiplier, bool, error) {
	return f.multiplier, f.active, nil
}

var errBoom = errors.New("boom")

// harness wires every service to one store.
type harness struct {
	store    *memStore
	tx       *fakeTx
	sync     *ParticipationSynchronizer
	stats    *StatisticsService
	admin    *AdminUserService
	benefits *BenefitsService
	miniDraw *MiniDrawService
	settings *SystemSettingsService
}

func newHarness(flags FeatureFlags, promo PromoSource) *harness {
	store := newMemStore()
	tx := &fakeTx{store: store}
	users := fakeUserRepo{store}
	majors := fakeMajorDrawRepo{store}
	minis := fakeMiniDrawRepo{store}
	events := fakeEventRepo{store}
	orders := fakeOrderRepo{store}
	referrals := fakeReferralRepo{store}

	sync := NewParticipationSynchronizer(majors, minis)
	sync.now = fixedNow
	stats := NewStatisticsService(users, majors, minis, events, orders, referrals)
	stats.now = fixedNow
	admin := NewAdminUserService(tx, users, sync, stats, flags)
	admin.now = fixedNow
	benefits := NewBenefitsService(tx, users, majors, minis, events, referrals, promo)
	benefits.now = fixedNow
	miniDraw := NewMiniDrawService(minis)
	miniDraw.now = fixedNow
	settings := NewSystemSettingsService(fakeSettingsRepo{store})
	settings.now = fixedNow

	return &harness{
		store:    store,
		tx:       tx,
		sync:     sync,
		stats:    stats,
		admin:    admin,
		benefits: benefits,
		miniDraw: miniDraw,
		settings: settings,
	}
}
