package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/studio-booking/internal/cache"
	domain "github.com/BruksfildServices01/studio-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/studio-booking/internal/dto"
	"github.com/BruksfildServices01/studio-booking/internal/httperr"
)

const occupancyTTL = 10 * time.Minute

// GetMonthOccupancy counts active appointments per day of month, by start
// day in the business timezone. Results are cached per snapshot.
type GetMonthOccupancy struct {
	repo   domain.Repository
	policy domain.Policy
	cache  cache.Cache
	log    *zap.Logger
}

func NewGetMonthOccupancy(
	repo domain.Repository,
	policy domain.Policy,
	c cache.Cache,
	log *zap.Logger,
) *GetMonthOccupancy {
	if c == nil {
		c = cache.Nop{}
	}
	return &GetMonthOccupancy{
		repo:   repo,
		policy: policy,
		cache:  c,
		log:    orNop(log),
	}
}

func (uc *GetMonthOccupancy) Execute(
	ctx context.Context,
	year int,
	month int,
) (dto.MonthOccupancyDTO, error) {

	if month < 1 || month > 12 {
		return dto.MonthOccupancyDTO{}, httperr.ErrValidation("month", "out_of_range")
	}
	if year < 1970 || year > 9999 {
		return dto.MonthOccupancyDTO{}, httperr.ErrValidation("year", "out_of_range")
	}

	snap := uc.repo.Snapshot()
	loc := uc.policy.Loc()
	key := cache.Key("occupancy", snap.Tag(), loc.String(), year, month)

	var out dto.MonthOccupancyDTO
	hit, err := uc.cache.Get(ctx, key, &out)
	if err != nil {
		uc.log.Warn("occupancy cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return out, nil
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	out = dto.MonthOccupancyDTO{Year: year, Month: month, Days: map[int]int{}}
	for _, ap := range snap.AppointmentsStartingBetween(start, end) {
		if ap.Active() {
			out.Days[ap.StartTime.In(loc).Day()]++
		}
	}

	if err := uc.cache.Set(ctx, key, out, occupancyTTL); err != nil {
		uc.log.Warn("occupancy cache write failed", zap.String("key", key), zap.Error(err))
	}

	return out, nil
}
