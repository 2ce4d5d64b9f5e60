package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newMenuRepository(db *bun.DB) repository.Repository[*menuModel] {
	return repository.NewRepository[*menuModel](db, repository.ModelHandlers[*menuModel]{
		NewRecord: func() *menuModel { return &menuModel{} },
		GetID: func(m *menuModel) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID:         func(m *menuModel, id uuid.UUID) { m.ID = id },
		GetIdentifier: func() string { return "title" },
	})
}

func newSubmenuRepository(db *bun.DB) repository.Repository[*submenuModel] {
	return repository.NewRepository[*submenuModel](db, repository.ModelHandlers[*submenuModel]{
		NewRecord: func() *submenuModel { return &submenuModel{} },
		GetID: func(s *submenuModel) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID:         func(s *submenuModel, id uuid.UUID) { s.ID = id },
		GetIdentifier: func() string { return "title" },
	})
}

func newDishRepository(db *bun.DB) repository.Repository[*dishModel] {
	return repository.NewRepository[*dishModel](db, repository.ModelHandlers[*dishModel]{
		NewRecord: func() *dishModel { return &dishModel{} },
		GetID: func(d *dishModel) uuid.UUID {
			if d == nil {
				return uuid.Nil
			}
			return d.ID
		},
		SetID:         func(d *dishModel, id uuid.UUID) { d.ID = id },
		GetIdentifier: func() string { return "title" },
	})
}
