package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Hearthmarket_Go/internal/domain"
	"github.com/osse101/Hearthmarket_Go/internal/repository"
	"github.com/osse101/Hearthmarket_Go/internal/utils"
)

// SeedFixture is the JSON document accepted by `hearthctl seed`.
type SeedFixture struct {
	Users []domain.User `json:"users"`
	Shops []domain.Shop `json:"shops"`
}

// SeedResult counts the documents written.
type SeedResult struct {
	Users int
	Shops int
}

// LoadSeedFixture strictly decodes a seed file.
func LoadSeedFixture(path string) (*SeedFixture, error) {
	fixture, err := utils.ReadJSONFile[SeedFixture](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedReadSeed, err)
	}
	return &fixture, nil
}

// ApplySeed upserts every user and then every shop in fixture. Shop owners must
// be present either in the fixture or already in storage.
func ApplySeed(ctx context.Context, seeder repository.Seeder, fixture *SeedFixture) (SeedResult, error) {
	var res SeedResult
	for i := range fixture.Users {
		u := &fixture.Users[i]
		if err := seeder.UpsertUser(ctx, u); err != nil {
			return res, fmt.Errorf("%s %s: %w", ErrMsgFailedSeedUser, u.ID, err)
		}
		res.Users++
	}
	for i := range fixture.Shops {
		s := &fixture.Shops[i]
		if _, err := seeder.GetUser(ctx, s.OwnerUserID); err != nil {
			return res, fmt.Errorf("%s %s: owner: %w", ErrMsgFailedSeedShop, s.ID, err)
		}
		if err := seeder.UpsertShop(ctx, s); err != nil {
			return res, fmt.Errorf("%s %s: %w", ErrMsgFailedSeedShop, s.ID, err)
		}
		res.Shops++
	}
	slog.Info(LogMsgSeedApplied, "users", res.Users, "shops", res.Shops)
	return res, nil
}
