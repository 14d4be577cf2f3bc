package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type fakeScheduleRepo struct {
	repository.ScheduleRepository
	days     []*model.WorkDay
	holidays map[string]bool
	saved    *model.WorkDay
}

func (r *fakeScheduleRepo) UpsertWorkDay(_ context.Context, day *model.WorkDay) error {
	r.saved = day
	return nil
}

func (r *fakeScheduleRepo) ListWorkDays(_ context.Context) ([]*model.WorkDay, error) {
	return r.days, nil
}

func (r *fakeScheduleRepo) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	return r.holidays[date.Format("2006-01-02")], nil
}

// at builds a timestamp on a known weekday. 2026-08-31 is a Monday.
func at(day int, hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-08-31 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t.AddDate(0, 0, day-1)
}

func TestIsOpenDefaults(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{holidays: map[string]bool{}})

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday mid-morning", at(1, "10:30"), true},
		{"monday at opening", at(1, "09:00"), true},
		{"monday before opening", at(1, "08:59"), false},
		{"monday at closing", at(1, "18:00"), false},
		{"friday afternoon", at(5, "16:00"), true},
		{"saturday", at(6, "11:00"), false},
		{"sunday", at(7, "11:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, err := svc.IsOpen(context.Background(), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, open)
		})
	}
}

func TestIsOpenConfiguredWeek(t *testing.T) {
	repo := &fakeScheduleRepo{
		holidays: map[string]bool{},
		days: []*model.WorkDay{
			{DayOfWeek: 6, Open: true, OpenTime: "10:00", CloseTime: "14:00"},
			{DayOfWeek: 1, Open: false},
		},
	}
	svc := NewService(repo)

	open, err := svc.IsOpen(context.Background(), at(6, "11:00"))
	require.NoError(t, err)
	assert.True(t, open, "configured saturday hours win over the default week")

	open, err = svc.IsOpen(context.Background(), at(1, "11:00"))
	require.NoError(t, err)
	assert.False(t, open, "monday explicitly marked closed")
}

func TestIsOpenHoliday(t *testing.T) {
	repo := &fakeScheduleRepo{
		holidays: map[string]bool{at(1, "00:00").Format("2006-01-02"): true},
	}
	svc := NewService(repo)

	open, err := svc.IsOpen(context.Background(), at(1, "10:30"))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestUpsertWorkDayFillsDefaults(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewService(repo)

	day, err := svc.UpsertWorkDay(context.Background(), &model.UpdateWorkDayRequest{
		DayOfWeek: 3,
		Open:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", day.OpenTime)
	assert.Equal(t, "18:00", day.CloseTime)
	assert.Same(t, day, repo.saved)
}

func TestUpsertWorkDayRejectsInvertedHours(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{})

	_, err := svc.UpsertWorkDay(context.Background(), &model.UpdateWorkDayRequest{
		DayOfWeek: 3,
		Open:      true,
		OpenTime:  "18:00",
		CloseTime: "09:00",
	})
	assert.ErrorContains(t, err, "after opening")
}

func TestCreateWorkShiftValidatesHours(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{})

	_, err := svc.CreateWorkShift(context.Background(), &model.CreateWorkShiftRequest{
		DayOfWeek: 2,
		StartTime: "12:00",
		EndTime:   "12:00",
	})
	assert.Error(t, err)
}
