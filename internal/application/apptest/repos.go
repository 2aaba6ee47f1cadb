package apptest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type userRepo struct{ v view }

var _ repository.UserRepository = userRepo{}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		for _, o := range st.users {
			if strings.EqualFold(o.Email, u.Email) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, u.Email)
			}
		}
		u.ID = st.next("users")
		st.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r userRepo) GetByID(_ context.Context, id int64) (out *entity.User, err error) {
	err = r.v.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmail(_ context.Context, email string) (out *entity.User, err error) {
	err = r.v.with(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) GetByIDs(_ context.Context, ids []int64) (out []*entity.User, err error) {
	err = r.v.with(func(st *state) error {
		for _, u := range sortedUsers(st.users) {
			if slices.Contains(ids, u.ID) {
				out = append(out, copyUser(u))
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.users {
			if o.ID != u.ID && strings.EqualFold(o.Email, u.Email) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, u.Email)
			}
		}
		st.users[u.ID] = copyUser(u)
		return nil
	})
}

func (r userRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	return r.v.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u.PasswordHash = hash
		return nil
	})
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		return deleteUsers(st, []int64{id})
	})
}

func (r userRepo) DeleteMany(_ context.Context, ids []int64) (n int64, err error) {
	err = r.v.with(func(st *state) error {
		var present []int64
		for _, id := range ids {
			if _, ok := st.users[id]; ok {
				present = append(present, id)
			}
		}
		n = int64(len(present))
		return deleteUsers(st, present)
	})
	return n, err
}

// deleteUsers replica las FK: clientes y asignaciones bloquean, la auditoría queda sin actor.
func deleteUsers(st *state, ids []int64) error {
	for _, c := range st.customers {
		if slices.Contains(ids, c.SalespersonID) {
			return fmt.Errorf("%w: el usuario tiene clientes asignados", domain.ErrConflict)
		}
	}
	for _, a := range st.assignments {
		if slices.Contains(ids, a.UserID) {
			return fmt.Errorf("%w: el usuario tiene asignaciones", domain.ErrConflict)
		}
	}
	for _, l := range st.logs {
		if l.UserID != nil && slices.Contains(ids, *l.UserID) {
			l.UserID = nil
		}
	}
	for _, id := range ids {
		delete(st.users, id)
	}
	return nil
}

func (r userRepo) List(_ context.Context, f repository.UserFilter) (out []*entity.User, err error) {
	err = r.v.with(func(st *state) error {
		var all []*entity.User
		for _, u := range sortedUsers(st.users) {
			if !f.Scope.Allows(u) {
				continue
			}
			if f.LocationID != nil && !u.InLocation(*f.LocationID) {
				continue
			}
			if f.Role != nil && u.Role != *f.Role {
				continue
			}
			if f.Name != "" && !containsFold(u.Name, f.Name) {
				continue
			}
			all = append(all, copyUser(u))
		}
		out = paginate(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// ── Sedes ────────────────────────────────────────────────────────────────────

type locationRepo struct{ v view }

var _ repository.LocationRepository = locationRepo{}

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.v.with(func(st *state) error {
		l.ID = st.next("locations")
		c := *l
		st.locations[l.ID] = &c
		return nil
	})
}

func (r locationRepo) GetByID(_ context.Context, id int64) (out *entity.Location, err error) {
	err = r.v.with(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			c := *l
			out = &c
		}
		return nil
	})
	return out, err
}

func (r locationRepo) List(_ context.Context) (out []*entity.Location, err error) {
	err = r.v.with(func(st *state) error {
		for _, l := range st.locations {
			c := *l
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r locationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.locations[l.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *l
		st.locations[l.ID] = &c
		return nil
	})
}

func (r locationRepo) Delete(_ context.Context, id int64) error {
	return r.v.with(func(st *state) error {
		for _, u := range st.users {
			if u.InLocation(id) {
				return fmt.Errorf("%w: la sede tiene usuarios", domain.ErrConflict)
			}
		}
		for _, c := range st.customers {
			if c.LocationID == id {
				return fmt.Errorf("%w: la sede tiene clientes", domain.ErrConflict)
			}
		}
		for _, a := range st.assignments {
			if a.LocationID == id {
				return fmt.Errorf("%w: la sede tiene asignaciones", domain.ErrConflict)
			}
		}
		delete(st.locations, id)
		return nil
	})
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type customerRepo struct{ v view }

var _ repository.CustomerRepository = customerRepo{}

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.v.with(func(st *state) error {
		for _, o := range st.customers {
			if strings.EqualFold(o.Email, c.Email) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, c.Email)
			}
		}
		c.ID = st.next("customers")
		cp := *c
		st.customers[c.ID] = &cp
		return nil
	})
}

func (r customerRepo) GetByID(_ context.Context, id int64) (out *entity.Customer, err error) {
	err = r.v.with(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r customerRepo) GetByEmail(_ context.Context, email string) (out *entity.Customer, err error) {
	err = r.v.with(func(st *state) error {
		for _, c := range st.customers {
			if strings.EqualFold(c.Email, email) {
				cp := *c
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, o := range st.customers {
			if o.ID != c.ID && strings.EqualFold(o.Email, c.Email) {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, c.Email)
			}
		}
		cp := *c
		st.customers[c.ID] = &cp
		return nil
	})
}

func (r customerRepo) List(_ context.Context, f repository.CustomerFilter) (out []*entity.Customer, err error) {
	err = r.v.with(func(st *state) error {
		all := filterCustomers(st, f)
		sortCustomers(all, f.SortBy, f.SortAsc)
		out = paginate(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r customerRepo) Count(_ context.Context, f repository.CustomerFilter) (n int64, err error) {
	err = r.v.with(func(st *state) error {
		n = int64(len(filterCustomers(st, f)))
		return nil
	})
	return n, err
}

func filterCustomers(st *state, f repository.CustomerFilter) []*entity.Customer {
	var out []*entity.Customer
	for _, c := range st.customers {
		if !f.Scope.Allows(c) {
			continue
		}
		if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Email, f.Search) && !containsFold(c.Phone, f.Search) {
			continue
		}
		if f.Name != "" && !containsFold(c.Name, f.Name) {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.LocationID != nil && c.LocationID != *f.LocationID {
			continue
		}
		if f.SalespersonID != nil && c.SalespersonID != *f.SalespersonID {
			continue
		}
		if !inRange(c.VisitDate, f.VisitDateFrom, f.VisitDateTo) || !inRange(c.CreatedAt, f.CreatedFrom, f.CreatedTo) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out
}

func sortCustomers(list []*entity.Customer, field string, asc bool) {
	less := func(a, b *entity.Customer) int {
		switch field {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "email":
			return strings.Compare(a.Email, b.Email)
		case "status":
			return strings.Compare(string(a.Status), string(b.Status))
		case "visit_date":
			return a.VisitDate.Compare(b.VisitDate)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		c := less(list[i], list[j])
		if c == 0 {
			return list[i].ID > list[j].ID
		}
		if asc {
			return c < 0
		}
		return c > 0
	})
}

// ── Asignaciones ─────────────────────────────────────────────────────────────

type assignmentRepo struct{ v view }

var _ repository.AssignmentRepository = assignmentRepo{}

func (r assignmentRepo) Create(_ context.Context, a *entity.Assignment) error {
	return r.v.with(func(st *state) error {
		for _, o := range st.assignments {
			if o.Code == a.Code {
				if activePair(st, a.UserID, a.LocationID) != nil {
					return domain.ErrDuplicateAssignment
				}
				return repository.ErrCodeTaken
			}
		}
		return insertAssignment(st, a)
	})
}

func (r assignmentRepo) Continue(_ context.Context, a *entity.Assignment) error {
	return r.v.with(func(st *state) error {
		return insertAssignment(st, a)
	})
}

func insertAssignment(st *state, a *entity.Assignment) error {
	if a.Active {
		if activePair(st, a.UserID, a.LocationID) != nil {
			return domain.ErrDuplicateAssignment
		}
		for _, o := range st.assignments {
			if o.Active && o.Code == a.Code {
				return fmt.Errorf("%w: código %s activo", domain.ErrConflict, a.Code)
			}
		}
	}
	a.ID = st.next("assignments")
	cp := *a
	st.assignments[a.ID] = &cp
	return nil
}

func activePair(st *state, userID, locationID int64) *entity.Assignment {
	for _, o := range st.assignments {
		if o.Active && o.UserID == userID && o.LocationID == locationID {
			return o
		}
	}
	return nil
}

func (r assignmentRepo) GetByID(_ context.Context, id int64) (out *entity.Assignment, err error) {
	err = r.v.with(func(st *state) error {
		if a, ok := st.assignments[id]; ok {
			cp := *a
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r assignmentRepo) FindActive(_ context.Context, userID, locationID int64) (out *entity.Assignment, err error) {
	err = r.v.with(func(st *state) error {
		if a := activePair(st, userID, locationID); a != nil {
			cp := *a
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r assignmentRepo) SetActive(_ context.Context, id int64, active bool) error {
	return r.v.with(func(st *state) error {
		a, ok := st.assignments[id]
		if !ok {
			return domain.ErrNotFound
		}
		if active && !a.Active {
			if activePair(st, a.UserID, a.LocationID) != nil {
				return domain.ErrDuplicateAssignment
			}
			for _, o := range st.assignments {
				if o.Active && o.Code == a.Code {
					return domain.ErrConflict
				}
			}
		}
		a.Active = active
		return nil
	})
}

func (r assignmentRepo) Delete(_ context.Context, id int64) error {
	return r.v.with(func(st *state) error {
		delete(st.assignments, id)
		return nil
	})
}

func (r assignmentRepo) List(_ context.Context, f repository.AssignmentFilter) (out []*entity.Assignment, err error) {
	err = r.v.with(func(st *state) error {
		for _, a := range sortedAssignments(st.assignments) {
			if !f.Scope.Allows(a) {
				continue
			}
			if f.LocationID != nil && a.LocationID != *f.LocationID {
				continue
			}
			if f.UserID != nil && a.UserID != *f.UserID {
				continue
			}
			if f.Code != nil && a.Code != *f.Code {
				continue
			}
			if f.Active != nil && a.Active != *f.Active {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
		if f.NewestFirst {
			sort.SliceStable(out, func(i, j int) bool {
				if c := out[i].CreatedAt.Compare(out[j].CreatedAt); c != 0 {
					return c > 0
				}
				return out[i].ID > out[j].ID
			})
		} else {
			sort.SliceStable(out, func(i, j int) bool {
				if out[i].Code != out[j].Code {
					return out[i].Code > out[j].Code
				}
				return out[i].ID > out[j].ID
			})
		}
		return nil
	})
	return out, err
}

// ── Auditoría ────────────────────────────────────────────────────────────────

type logRepo struct{ v view }

var _ repository.ActivityLogRepository = logRepo{}

func (r logRepo) Append(_ context.Context, l *entity.ActivityLog) error {
	return r.v.with(func(st *state) error {
		if err := r.v.store.takeAppendFailure(); err != nil {
			return err
		}
		if l.UserID != nil {
			if _, ok := st.users[*l.UserID]; !ok {
				return fmt.Errorf("activity_logs.user_id %d: violates foreign key", *l.UserID)
			}
		}
		l.ID = st.next("activity_logs")
		st.logs = append(st.logs, copyLog(l))
		return nil
	})
}

func (r logRepo) GetByID(_ context.Context, id int64) (out *entity.ActivityLog, err error) {
	err = r.v.with(func(st *state) error {
		for _, l := range st.logs {
			if l.ID == id {
				out = copyLog(l)
			}
		}
		return nil
	})
	return out, err
}

func (r logRepo) List(_ context.Context, f repository.ActivityLogFilter) (out []*entity.ActivityLog, err error) {
	err = r.v.with(func(st *state) error {
		var all []*entity.ActivityLog
		for _, l := range st.logs {
			var author *entity.User
			if l.UserID != nil {
				author = st.users[*l.UserID]
			}
			if !f.Scope.Allows(l, author) {
				continue
			}
			if f.UserID != nil && (l.UserID == nil || *l.UserID != *f.UserID) {
				continue
			}
			if f.Type != nil && l.Type != *f.Type {
				continue
			}
			if len(f.EntityIDs) > 0 && (l.EntityID == nil || !slices.Contains(f.EntityIDs, *l.EntityID)) {
				continue
			}
			if f.Activity != "" && !containsFold(l.Activity, f.Activity) {
				continue
			}
			if !inRange(l.CreatedAt, f.From, f.To) {
				continue
			}
			all = append(all, copyLog(l))
		}
		sort.SliceStable(all, func(i, j int) bool {
			if c := all[i].CreatedAt.Compare(all[j].CreatedAt); c != 0 {
				return c > 0
			}
			return all[i].ID > all[j].ID
		})
		out = paginate(all, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// ── Tablero ──────────────────────────────────────────────────────────────────

type dashboardRepo struct{ v view }

var _ repository.DashboardRepository = dashboardRepo{}

func (r dashboardRepo) CustomerStats(_ context.Context, scope policy.CustomerScope) (out *repository.CustomerStats, err error) {
	err = r.v.with(func(st *state) error {
		s := &repository.CustomerStats{CompletionRate: decimal.Zero}
		for _, c := range filterCustomers(st, repository.CustomerFilter{Scope: scope}) {
			s.Total++
			switch c.Status {
			case entity.CustomerPending:
				s.Pending++
			case entity.CustomerOngoing:
				s.Ongoing++
			case entity.CustomerCompleted:
				s.Completed++
			case entity.CustomerCancelled:
				s.Cancelled++
			}
		}
		if s.Total > 0 {
			s.CompletionRate = decimal.NewFromInt(s.Completed * 100).Div(decimal.NewFromInt(s.Total)).Round(2)
		}
		out = s
		return nil
	})
	return out, err
}

func (r dashboardRepo) VisitsBetween(_ context.Context, scope policy.CustomerScope, from, to time.Time) (n int64, err error) {
	err = r.v.with(func(st *state) error {
		for _, c := range filterCustomers(st, repository.CustomerFilter{Scope: scope}) {
			if !c.VisitDate.Before(from) && c.VisitDate.Before(to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r dashboardRepo) ActiveSalespeople(_ context.Context, scope policy.AssignmentScope) (n int64, err error) {
	err = r.v.with(func(st *state) error {
		seen := map[int64]struct{}{}
		for _, a := range st.assignments {
			if a.Active && scope.Allows(a) {
				seen[a.UserID] = struct{}{}
			}
		}
		n = int64(len(seen))
		return nil
	})
	return n, err
}

// ── Utilidades ───────────────────────────────────────────────────────────────

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedUsers(m map[int64]*entity.User) []*entity.User {
	out := make([]*entity.User, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedAssignments(m map[int64]*entity.Assignment) []*entity.Assignment {
	out := make([]*entity.Assignment, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
