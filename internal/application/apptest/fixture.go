package apptest

import (
	"fmt"

	"github.com/jhoicas/salestrack-api/internal/domain"
	"github.com/jhoicas/salestrack-api/internal/domain/entity"
	"github.com/jhoicas/salestrack-api/internal/domain/policy"
)

// PlainHasher es un hasher reversible para tests: evita el coste de bcrypt.
type PlainHasher struct{}

func (PlainHasher) Hash(plain string) (string, error) { return "plain:" + plain, nil }

func (PlainHasher) Compare(hash, plain string) error {
	if hash != "plain:"+plain {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// StaticTokens emite un token determinista por usuario.
type StaticTokens struct{}

func (StaticTokens) Issue(u *entity.User) (string, error) {
	return fmt.Sprintf("token-%d", u.ID), nil
}

// World es el escenario base: dos sedes con un gerente y dos vendedores cada una.
//
//	Norte (loc1): Ana (gerente), Beto y Carla (vendedores)
//	Sur   (loc2): Diego (gerente), Eva (vendedora)
//	Root: super-admin sin sede
type World struct {
	Store *Store

	Loc1, Loc2 *entity.Location

	Admin, Manager1, Manager2  *entity.User
	SellerA, SellerA2, SellerB *entity.User
}

// Password es la contraseña de todos los usuarios sembrados.
const Password = "secreto123"

// NewWorld siembra el escenario base sobre un almacén vacío.
func NewWorld() *World {
	s := NewStore()
	h, _ := PlainHasher{}.Hash(Password)
	w := &World{Store: s}
	w.Loc1 = s.AddLocation("Norte")
	w.Loc2 = s.AddLocation("Sur")
	w.Admin = s.AddUser("Root", "root@salestrack.co", entity.RoleSuperAdmin, 0, h)
	w.Manager1 = s.AddUser("Ana", "ana@salestrack.co", entity.RoleLocationManager, w.Loc1.ID, h)
	w.Manager2 = s.AddUser("Diego", "diego@salestrack.co", entity.RoleLocationManager, w.Loc2.ID, h)
	w.SellerA = s.AddUser("Beto", "beto@salestrack.co", entity.RoleSalesperson, w.Loc1.ID, h)
	w.SellerA2 = s.AddUser("Carla", "carla@salestrack.co", entity.RoleSalesperson, w.Loc1.ID, h)
	w.SellerB = s.AddUser("Eva", "eva@salestrack.co", entity.RoleSalesperson, w.Loc2.ID, h)
	return w
}

// Actor construye la identidad autenticada de un usuario sembrado.
func Actor(u *entity.User) policy.Actor {
	a := policy.Actor{UserID: u.ID, Role: u.Role}
	if u.LocationID != nil {
		a.LocationID = *u.LocationID
	}
	return a
}
