package application

import (
	"context"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
)

// EventPublisher sends CloudEvents to a topic. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// FlatCache stores rendered public flat listings keyed by filter.
//
// GetFlats reports the cache generation it read, hit or miss. A listing loaded
// after a miss must be stored with SetFlats under that generation, so a listing
// read before an invalidation is never served after it.
type FlatCache interface {
	GetFlats(ctx context.Context, key string) (flats []FlatDTO, gen int64, ok bool)
	SetFlats(ctx context.Context, key string, gen int64, flats []FlatDTO)
	InvalidateFlats(ctx context.Context)
}

// NoopFlatCache never hits. It is used when Redis is not configured.
type NoopFlatCache struct{}

func (NoopFlatCache) GetFlats(context.Context, string) ([]FlatDTO, int64, bool) { return nil, 0, false }
func (NoopFlatCache) SetFlats(context.Context, string, int64, []FlatDTO)        {}
func (NoopFlatCache) InvalidateFlats(context.Context)                           {}
