// Package memory хранит данные движка записи в памяти процесса.
// Повторяет контракты PostgreSQL-репозиториев, включая их ошибки,
// и используется в тестах use case'ов.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	appointmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/appointment"
	catalogRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/catalog"
	couponRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/coupon"
	establishmentRepo "github.com/emer5om/horaly-pro-sub000/internal/infra/storage/establishment"
)

type state struct {
	establishments map[int64]domain.Establishment
	services       map[int64]domain.Service
	plans          map[int64]domain.Plan
	blockedDates   []domain.BlockedDate
	blockedTimes   []domain.BlockedTime
	customers      map[int64]domain.Customer
	links          map[[2]int64]bool
	coupons        map[int64]domain.Coupon
	appointments   map[int64]domain.Appointment
	nextID         int64
}

func (s *state) clone() *state {
	return &state{
		establishments: maps.Clone(s.establishments),
		services:       maps.Clone(s.services),
		plans:          maps.Clone(s.plans),
		blockedDates:   slices.Clone(s.blockedDates),
		blockedTimes:   slices.Clone(s.blockedTimes),
		customers:      maps.Clone(s.customers),
		links:          maps.Clone(s.links),
		coupons:        maps.Clone(s.coupons),
		appointments:   maps.Clone(s.appointments),
		nextID:         s.nextID,
	}
}

// Store in-memory хранилище. Значения копируются на входе и выходе,
// поэтому вызывающий код не может изменить хранимые данные по указателю.
type Store struct {
	mu    sync.Mutex
	data  *state
	txMu  sync.Mutex
	Clock func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		data: &state{
			establishments: map[int64]domain.Establishment{},
			services:       map[int64]domain.Service{},
			plans:          map[int64]domain.Plan{},
			customers:      map[int64]domain.Customer{},
			links:          map[[2]int64]bool{},
			coupons:        map[int64]domain.Coupon{},
			appointments:   map[int64]domain.Appointment{},
			nextID:         1000,
		},
		Clock: time.Now,
	}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

// AddEstablishment добавляет заведение
func (s *Store) AddEstablishment(e domain.Establishment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.establishments[e.ID] = e
}

// AddService добавляет услугу
func (s *Store) AddService(svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.services[svc.ID] = svc
}

// AddPlan добавляет тариф
func (s *Store) AddPlan(p domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.plans[p.ID] = p
}

// AddBlockedDate добавляет блокировку дня
func (s *Store) AddBlockedDate(b domain.BlockedDate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.blockedDates = append(s.data.blockedDates, b)
}

// AddBlockedTime добавляет блокировку интервала
func (s *Store) AddBlockedTime(b domain.BlockedTime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.blockedTimes = append(s.data.blockedTimes, b)
}

// AddCoupon добавляет купон
func (s *Store) AddCoupon(c domain.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.coupons[c.ID] = c
}

// AddAppointment добавляет запись как есть, ID назначается, если не задан
func (s *Store) AddAppointment(a domain.Appointment) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.Clock()
	}
	s.data.appointments[a.ID] = a
	return a.ID
}

// Appointments возвращает все записи заведения
func (s *Store) Appointments(establishmentID int64) []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Appointment
	for _, a := range s.data.appointments {
		if a.EstablishmentID == establishmentID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.Appointment) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Coupon возвращает купон по ID
func (s *Store) Coupon(id int64) domain.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.coupons[id]
}

// Customers возвращает количество клиентов
func (s *Store) Customers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.customers)
}

// Establishments представление репозитория заведений
func (s *Store) Establishments() *EstablishmentRepository { return &EstablishmentRepository{s} }

// Catalog представление каталога услуг
func (s *Store) Catalog() *CatalogRepository { return &CatalogRepository{s} }

// Blocking представление репозитория блокировок
func (s *Store) Blocking() *BlockingRepository { return &BlockingRepository{s} }

// AppointmentRepo представление репозитория записей
func (s *Store) AppointmentRepo() *AppointmentRepository { return &AppointmentRepository{s} }

// CustomerRepo представление репозитория клиентов
func (s *Store) CustomerRepo() *CustomerRepository { return &CustomerRepository{s} }

// CouponRepo представление репозитория купонов
func (s *Store) CouponRepo() *CouponRepository { return &CouponRepository{s} }

// Plans представление репозитория тарифов
func (s *Store) Plans() *PlanRepository { return &PlanRepository{s} }

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s} }

// EstablishmentRepository заведения
type EstablishmentRepository struct{ s *Store }

func (r *EstablishmentRepository) GetBySlug(_ context.Context, slug string) (*domain.Establishment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.data.establishments {
		if e.Slug == slug {
			return &e, nil
		}
	}
	return nil, establishmentRepo.ErrEstablishmentNotFound
}

func (r *EstablishmentRepository) GetByID(_ context.Context, id int64) (*domain.Establishment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.establishments[id]
	if !ok {
		return nil, establishmentRepo.ErrEstablishmentNotFound
	}
	return &e, nil
}

// LockForBooking транзакции и так выполняются по одной, см. TxManager
func (r *EstablishmentRepository) LockForBooking(ctx context.Context, id int64) error {
	_, err := r.GetByID(ctx, id)
	return err
}

func (r *EstablishmentRepository) UpdateBookingRules(_ context.Context, id int64, rules domain.BookingRules) (*domain.Establishment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.establishments[id]
	if !ok {
		return nil, establishmentRepo.ErrEstablishmentNotFound
	}
	e.WorkingHours = maps.Clone(rules.WorkingHours)
	e.SlotsPerHour = rules.SlotsPerHour
	e.EarliestBookingTime = rules.EarliestBookingTime
	e.LatestBookingTime = rules.LatestBookingTime
	e.RequiredCustomerFields = slices.Clone(rules.RequiredCustomerFields)
	e.UpdatedAt = r.s.Clock()
	r.s.data.establishments[id] = e
	return &e, nil
}

// CatalogRepository услуги
type CatalogRepository struct{ s *Store }

func (r *CatalogRepository) GetService(_ context.Context, establishmentID, serviceID int64) (*domain.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.data.services[serviceID]
	if !ok || svc.EstablishmentID != establishmentID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &svc, nil
}

// BlockingRepository блокировки
type BlockingRepository struct{ s *Store }

func (r *BlockingRepository) ListBlockedDates(_ context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.BlockedDate, 0)
	for _, b := range r.s.data.blockedDates {
		if b.EstablishmentID != establishmentID {
			continue
		}
		if b.IsRecurring || inRange(b.Date, from, to) {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *BlockingRepository) ListBlockedTimes(_ context.Context, establishmentID int64, from, to time.Time) ([]*domain.BlockedTime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.BlockedTime, 0)
	for _, b := range r.s.data.blockedTimes {
		if b.EstablishmentID == establishmentID && inRange(b.Date, from, to) {
			out = append(out, &b)
		}
	}
	return out, nil
}

// AppointmentRepository записи
type AppointmentRepository struct{ s *Store }

func (r *AppointmentRepository) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appt.ID = r.s.id()
	appt.CreatedAt = r.s.Clock()
	appt.UpdatedAt = appt.CreatedAt
	r.s.data.appointments[appt.ID] = *appt
	return appt, nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, establishmentID, id int64) (*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.appointments[id]
	if !ok || a.EstablishmentID != establishmentID {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *AppointmentRepository) ListActiveByDateRange(_ context.Context, establishmentID int64, from, to time.Time) ([]*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.s.data.appointments {
		if a.EstablishmentID == establishmentID && a.IsActive() && inRange(a.Date, from, to) {
			out = append(out, &a)
		}
	}
	sortAppointments(out)
	return out, nil
}

func (r *AppointmentRepository) ListByDateRange(_ context.Context, establishmentID int64, from, to time.Time, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.s.data.appointments {
		if a.EstablishmentID != establishmentID || !inRange(a.Date, from, to) {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		out = append(out, &a)
	}
	sortAppointments(out)
	return out, nil
}

func (r *AppointmentRepository) CountActiveCreatedBetween(_ context.Context, establishmentID int64, from, to time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, a := range r.s.data.appointments {
		if a.EstablishmentID == establishmentID && a.IsActive() &&
			!a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, establishmentID, id int64, status domain.AppointmentStatus, cancelledAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.appointments[id]
	if !ok || a.EstablishmentID != establishmentID {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	if cancelledAt != nil {
		t := *cancelledAt
		a.CancelledAt = &t
	}
	a.UpdatedAt = r.s.Clock()
	r.s.data.appointments[id] = a
	return nil
}

// CustomerRepository клиенты
type CustomerRepository struct{ s *Store }

func (r *CustomerRepository) UpsertByPhone(_ context.Context, in *domain.CustomerInput) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	phone := domain.NormalizePhone(in.Phone)
	for id, c := range r.s.data.customers {
		if c.Phone != phone {
			continue
		}
		if in.Name != "" {
			c.Name = in.Name
		}
		if in.Email != nil {
			c.Email = in.Email
		}
		r.s.data.customers[id] = c
		return &c, nil
	}
	c := domain.Customer{
		ID:        r.s.id(),
		Name:      in.Name,
		Phone:     phone,
		Email:     in.Email,
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		CreatedAt: r.s.Clock(),
	}
	r.s.data.customers[c.ID] = c
	return &c, nil
}

func (r *CustomerRepository) AttachToEstablishment(_ context.Context, customerID, establishmentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.links[[2]int64{customerID, establishmentID}] = true
	return nil
}

// CouponRepository купоны
type CouponRepository struct{ s *Store }

func (r *CouponRepository) GetByCode(_ context.Context, establishmentID int64, code string) (*domain.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.coupons {
		if c.EstablishmentID == establishmentID && strings.EqualFold(c.Code, strings.TrimSpace(code)) {
			return &c, nil
		}
	}
	return nil, couponRepo.ErrCouponNotFound
}

func (r *CouponRepository) IncrementUsage(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.data.coupons[id]
	c.UsedCount++
	r.s.data.coupons[id] = c
	return nil
}

// PlanRepository тарифы
type PlanRepository struct{ s *Store }

func (r *PlanRepository) GetMonthlyLimit(_ context.Context, establishmentID int64) (*int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.data.establishments[establishmentID]
	if !ok || e.PlanID == nil {
		return nil, nil
	}
	p, ok := r.s.data.plans[*e.PlanID]
	if !ok {
		return nil, nil
	}
	limit, limited := p.MonthlyLimit()
	if !limited {
		return nil, nil
	}
	return &limit, nil
}

type txKey struct{}

// TxManager выполняет транзакции строго по одной.
// При ошибке состояние хранилища откатывается к снимку на момент начала.
type TxManager struct{ s *Store }

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.data.clone()
	m.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.data = snapshot
		m.s.mu.Unlock()
		return err
	}
	return nil
}

func sortAppointments(out []*domain.Appointment) {
	slices.SortFunc(out, func(a, b *domain.Appointment) int {
		if c := strings.Compare(dateKey(a.Date), dateKey(b.Date)); c != 0 {
			return c
		}
		return strings.Compare(a.StartTime.String(), b.StartTime.String())
	})
}

func dateKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func inRange(d, from, to time.Time) bool {
	k := dateKey(d)
	return k >= dateKey(from) && k <= dateKey(to)
}
