package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("user not found")

// Fixtures are the users inserted by -seed.
// nolint
var Fixtures = []*model.User{
	{ID: 100, Name: "Peter"},
	{ID: 200, Name: "Julia"},
}

// Store resolves users by id. Accounts are managed elsewhere; this
// service only reads them.
type Store struct {
	db bun.IDB
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id int64) (*model.User, error) {
	u := new(model.User)
	err := s.db.NewSelect().Model(u).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}

	return u, nil
}

// Seed inserts the fixture users, skipping ones already present.
func (s *Store) Seed(ctx context.Context) error {
	for _, u := range Fixtures {
		if _, err := s.db.NewInsert().Model(u).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Name, err)
		}
	}

	return nil
}
