package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

// Defaults used until the shop configures its own hours.
const (
	defaultOpenTime  = "09:00"
	defaultCloseTime = "18:00"
)

type ScheduleService interface {
	UpsertWorkDay(ctx context.Context, req *model.UpdateWorkDayRequest) (*model.WorkDay, error)
	ListWorkDays(ctx context.Context) ([]*model.WorkDay, error)
	CreateHoliday(ctx context.Context, req *model.CreateHolidayRequest) (*model.Holiday, error)
	DeleteHoliday(ctx context.Context, id uuid.UUID) error
	ListHolidays(ctx context.Context, from, to time.Time) ([]*model.Holiday, error)
	CreateWorkShift(ctx context.Context, req *model.CreateWorkShiftRequest) (*model.WorkShift, error)
	DeleteWorkShift(ctx context.Context, id uuid.UUID) error
	ListWorkShifts(ctx context.Context, userID *uuid.UUID) ([]*model.WorkShift, error)
	IsOpen(ctx context.Context, at time.Time) (bool, error)
}

type Service struct {
	repo repository.ScheduleRepository
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertWorkDay(ctx context.Context, req *model.UpdateWorkDayRequest) (*model.WorkDay, error) {
	day := &model.WorkDay{
		DayOfWeek: req.DayOfWeek,
		Open:      req.Open,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
	}
	if day.Open {
		if day.OpenTime == "" {
			day.OpenTime = defaultOpenTime
		}
		if day.CloseTime == "" {
			day.CloseTime = defaultCloseTime
		}
		if err := validateHours(day.OpenTime, day.CloseTime); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpsertWorkDay(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *Service) ListWorkDays(ctx context.Context) ([]*model.WorkDay, error) {
	return s.repo.ListWorkDays(ctx)
}

func (s *Service) CreateHoliday(ctx context.Context, req *model.CreateHolidayRequest) (*model.Holiday, error) {
	holiday := &model.Holiday{
		Date:        req.Date,
		Description: req.Description,
	}
	if err := s.repo.CreateHoliday(ctx, holiday); err != nil {
		return nil, err
	}
	return holiday, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteHoliday(ctx, id)
}

func (s *Service) ListHolidays(ctx context.Context, from, to time.Time) ([]*model.Holiday, error) {
	return s.repo.ListHolidays(ctx, from, to)
}

func (s *Service) CreateWorkShift(ctx context.Context, req *model.CreateWorkShiftRequest) (*model.WorkShift, error) {
	if err := validateHours(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	shift := &model.WorkShift{
		UserID:    req.UserID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.CreateWorkShift(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *Service) DeleteWorkShift(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWorkShift(ctx, id)
}

func (s *Service) ListWorkShifts(ctx context.Context, userID *uuid.UUID) ([]*model.WorkShift, error) {
	return s.repo.ListWorkShifts(ctx, userID)
}

// IsOpen reports whether the shop is open at the given instant: not a
// holiday, the weekday is marked open and the time falls inside its
// hours. With no configured week it assumes Monday to Friday, 09:00 to
// 18:00.
func (s *Service) IsOpen(ctx context.Context, at time.Time) (bool, error) {
	holiday, err := s.repo.IsHoliday(ctx, at)
	if err != nil {
		return false, err
	}
	if holiday {
		return false, nil
	}

	days, err := s.repo.ListWorkDays(ctx)
	if err != nil {
		return false, err
	}

	dow := isoWeekday(at)
	day := findDay(days, dow)
	if day == nil {
		day = defaultWorkDay(dow)
	}
	if !day.Open {
		return false, nil
	}

	minutes := at.Hour()*60 + at.Minute()
	open, err := parseClock(day.OpenTime)
	if err != nil {
		return false, err
	}
	closeAt, err := parseClock(day.CloseTime)
	if err != nil {
		return false, err
	}
	return minutes >= open && minutes < closeAt, nil
}

// isoWeekday maps time.Weekday to ISO numbering, 1=Monday through
// 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func findDay(days []*model.WorkDay, dow int) *model.WorkDay {
	for _, d := range days {
		if d.DayOfWeek == dow {
			return d
		}
	}
	return nil
}

func defaultWorkDay(dow int) *model.WorkDay {
	return &model.WorkDay{
		DayOfWeek: dow,
		Open:      dow >= 1 && dow <= 5,
		OpenTime:  defaultOpenTime,
		CloseTime: defaultCloseTime,
	}
}

func parseClock(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func validateHours(start, end string) error {
	s, err := parseClock(start)
	if err != nil {
		return err
	}
	e, err := parseClock(end)
	if err != nil {
		return err
	}
	if e <= s {
		return fmt.Errorf("closing time must be after opening time")
	}
	return nil
}
