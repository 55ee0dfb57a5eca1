package schedule

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/domain"
)

// Schedule answers takeaway pickup-time questions: which slots are still
// open, whether a chosen time is valid, and when a prepared order would be
// ready for pickup.
type Schedule interface {
	AvailableSlots(ctx context.Context) ([]domain.TimeSlot, error)
	ValidatePickupTime(ctx context.Context, pickupTime string) (bool, error)
	EstimatedPickup(ctx context.Context, preparationMinutes int) (string, error)
}

const slotLayout = "15:04"

type OpeningHours struct {
	Open  string // "11:00"
	Close string // "22:00"
}

type Service struct {
	hours    OpeningHours
	interval time.Duration
	now      func() time.Time
}

func NewService(hours OpeningHours, interval time.Duration) *Service {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Service{hours: hours, interval: interval, now: time.Now}
}

// AvailableSlots lists pickup slots from the next slot boundary after now up
// to closing time. Outside opening hours the list is empty.
func (s *Service) AvailableSlots(_ context.Context) ([]domain.TimeSlot, error) {
	now := s.now()
	open, close_, err := s.boundsOn(now)
	if err != nil {
		return nil, err
	}

	first := now
	if first.Before(open) {
		first = open
	}
	first = first.Truncate(s.interval)
	if first.Before(now) || first.Equal(now) {
		first = first.Add(s.interval)
	}

	var slots []domain.TimeSlot
	for t := first; !t.After(close_); t = t.Add(s.interval) {
		label := t.Format(slotLayout)
		slots = append(slots, domain.TimeSlot{
			ID:          label,
			Time:        label,
			IsAvailable: true,
		})
	}
	return slots, nil
}

// ValidatePickupTime reports whether the HH:MM time is well formed, within
// opening hours, and not already past.
func (s *Service) ValidatePickupTime(_ context.Context, pickupTime string) (bool, error) {
	parsed, err := time.Parse(slotLayout, pickupTime)
	if err != nil {
		return false, nil
	}

	now := s.now()
	open, close_, err := s.boundsOn(now)
	if err != nil {
		return false, err
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())

	if candidate.Before(open) || candidate.After(close_) {
		return false, nil
	}
	if !candidate.After(now) {
		return false, nil
	}
	return true, nil
}

// EstimatedPickup returns the first slot boundary at or after now plus the
// preparation time.
func (s *Service) EstimatedPickup(_ context.Context, preparationMinutes int) (string, error) {
	ready := s.now().Add(time.Duration(preparationMinutes) * time.Minute)
	rounded := ready.Truncate(s.interval)
	if rounded.Before(ready) {
		rounded = rounded.Add(s.interval)
	}
	return rounded.Format(slotLayout), nil
}

func (s *Service) boundsOn(day time.Time) (time.Time, time.Time, error) {
	open, err := time.Parse(slotLayout, s.hours.Open)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad opening time %q: %w", s.hours.Open, err)
	}
	close_, err := time.Parse(slotLayout, s.hours.Close)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad closing time %q: %w", s.hours.Close, err)
	}

	openAt := time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, day.Location())
	closeAt := time.Date(day.Year(), day.Month(), day.Day(), close_.Hour(), close_.Minute(), 0, 0, day.Location())
	return openAt, closeAt, nil
}
