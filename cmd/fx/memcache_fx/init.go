package memcache_fx

import (
	"go.uber.org/fx"

	mem "lingo/pkg/memcache"
)

var Module = fx.Provide(
	provideResetTokenStore,
	provideEventDedupeStore)

func provideResetTokenStore() mem.ResetTokenStore {
	return mem.NewResetTokens()
}

func provideEventDedupeStore() mem.EventDedupeStore {
	return mem.NewEventDedupe()
}
