package repository

import (
	"context"

	"orgroster/internal/domain"
)

// UnitFinder resolves units by primary key
type UnitFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.Unit, error)
}

// MemberLister loads every member in storage order
type MemberLister interface {
	GetAll(ctx context.Context) ([]*domain.Member, error)
}

// UnitStore defines data access for organizational units
type UnitStore interface {
	UnitFinder

	// Schema
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error

	// Write operations
	Save(ctx context.Context, unit *domain.Unit) error
	Create(ctx context.Context, name, location string) (*domain.Unit, error)
	Update(ctx context.Context, unit *domain.Unit) error
	Delete(ctx context.Context, unit *domain.Unit) error

	// Read operations
	FindByName(ctx context.Context, name string) (*domain.Unit, error)
	GetAll(ctx context.Context) ([]*domain.Unit, error)
}

// MemberStore defines data access for members
type MemberStore interface {
	MemberLister

	// Schema
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error

	// Write operations
	Save(ctx context.Context, member *domain.Member) error
	Create(ctx context.Context, name, title string, unitID int64) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, member *domain.Member) error

	// Read operations
	FindByID(ctx context.Context, id int64) (*domain.Member, error)
	FindByName(ctx context.Context, name string) (*domain.Member, error)
}
