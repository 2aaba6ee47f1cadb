// Package apptest ofrece un almacén en memoria con semántica transaccional y las
// mismas restricciones de unicidad que el esquema PostgreSQL, para probar los
// casos de uso sin base de datos.
package apptest

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/salestrack-api/internal/application/ports"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

// Store guarda el estado confirmado. Run trabaja sobre una copia y la confirma sólo si fn no falla.
type Store struct {
	mu         sync.Mutex
	st         *state
	failAppend error
}

type state struct {
	users       map[int64]*entity.User
	locations   map[int64]*entity.Location
	customers   map[int64]*entity.Customer
	assignments map[int64]*entity.Assignment
	logs        []*entity.ActivityLog
	seq         map[string]int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{
		users:       map[int64]*entity.User{},
		locations:   map[int64]*entity.Location{},
		customers:   map[int64]*entity.Customer{},
		assignments: map[int64]*entity.Assignment{},
		seq:         map[string]int64{},
	}}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *state) clone() *state {
	c := &state{
		users:       make(map[int64]*entity.User, len(s.users)),
		locations:   make(map[int64]*entity.Location, len(s.locations)),
		customers:   make(map[int64]*entity.Customer, len(s.customers)),
		assignments: make(map[int64]*entity.Assignment, len(s.assignments)),
		logs:        make([]*entity.ActivityLog, 0, len(s.logs)),
		seq:         make(map[string]int64, len(s.seq)),
	}
	for k, v := range s.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range s.locations {
		l := *v
		c.locations[k] = &l
	}
	for k, v := range s.customers {
		cu := *v
		c.customers[k] = &cu
	}
	for k, v := range s.assignments {
		a := *v
		c.assignments[k] = &a
	}
	for _, v := range s.logs {
		c.logs = append(c.logs, copyLog(v))
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// view decide sobre qué estado opera un repositorio: la copia de una tx o el confirmado.
type view struct {
	store *Store
	tx    *state
}

func (v view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (s *Store) repos(v view) ports.Repos {
	return ports.Repos{
		Users:       userRepo{v},
		Locations:   locationRepo{v},
		Customers:   customerRepo{v},
		Assignments: assignmentRepo{v},
		Logs:        logRepo{v},
	}
}

// Repos devuelve repositorios fuera de transacción.
func (s *Store) Repos() ports.Repos { return s.repos(view{store: s}) }

// Dashboard devuelve el repositorio de lectura del tablero.
func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{view{store: s}} }

// Run implementa ports.TxRunner. Las transacciones se serializan.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(s.repos(view{store: s, tx: tx})); err != nil {
		return err
	}
	s.st = tx
	return nil
}

var _ ports.TxRunner = (*Store)(nil)

// FailNextAppend hace fallar la próxima inserción de auditoría (prueba de atomicidad).
func (s *Store) FailNextAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppend = err
}

func (s *Store) takeAppendFailure() error {
	err := s.failAppend
	s.failAppend = nil
	return err
}

// ── Semillas y lecturas para aserciones ──────────────────────────────────────

// AddLocation inserta una sede confirmada.
func (s *Store) AddLocation(name string) *entity.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &entity.Location{ID: s.st.next("locations"), Name: name}
	s.st.locations[l.ID] = l
	c := *l
	return &c
}

// AddUser inserta un usuario confirmado. locationID 0 = sin sede.
func (s *Store) AddUser(name, email string, role entity.Role, locationID int64, passwordHash string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{ID: s.st.next("users"), Name: name, Email: email, Role: role, PasswordHash: passwordHash}
	if locationID > 0 {
		u.LocationID = &locationID
	}
	s.st.users[u.ID] = u
	return copyUser(u)
}

// Logs devuelve una copia de toda la auditoría confirmada, en orden de inserción.
func (s *Store) Logs() []entity.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ActivityLog, 0, len(s.st.logs))
	for _, l := range s.st.logs {
		out = append(out, *copyLog(l))
	}
	return out
}

// Assignments devuelve una copia de las asignaciones confirmadas.
func (s *Store) Assignments() []entity.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Assignment, 0, len(s.st.assignments))
	for _, a := range sortedAssignments(s.st.assignments) {
		out = append(out, *a)
	}
	return out
}

// Customer devuelve el cliente confirmado o nil.
func (s *Store) Customer(id int64) *entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// User devuelve el usuario confirmado o nil.
func (s *Store) User(id int64) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	if !ok {
		return nil
	}
	return copyUser(u)
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.LocationID != nil {
		id := *u.LocationID
		c.LocationID = &id
	}
	return &c
}

func copyLog(l *entity.ActivityLog) *entity.ActivityLog {
	c := *l
	if l.UserID != nil {
		id := *l.UserID
		c.UserID = &id
	}
	if l.EntityID != nil {
		id := *l.EntityID
		c.EntityID = &id
	}
	return &c
}

// RecordingPublisher guarda lo publicado tras cada commit.
type RecordingPublisher struct {
	mu   sync.Mutex
	logs []entity.ActivityLog
	Err  error
}

// Publish implementa ports.AuditPublisher.
func (p *RecordingPublisher) Publish(_ context.Context, l *entity.ActivityLog) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.logs = append(p.logs, *copyLog(l))
	return nil
}

// Published devuelve lo publicado hasta ahora.
func (p *RecordingPublisher) Published() []entity.ActivityLog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.ActivityLog(nil), p.logs...)
}

var _ ports.AuditPublisher = (*RecordingPublisher)(nil)

// ErrInjected es el error que usan los tests de atomicidad.
var ErrInjected = errors.New("injected failure")
