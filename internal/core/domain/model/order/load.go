package order

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrLoadIsNotConstructed is returned when using an improperly initialized Load.
var ErrLoadIsNotConstructed = errs.NewValueIsRequiredError(
	"load must be created via NewLoad constructor")

// Load describes the cargo of an order: the vehicle size category it needs
// and the truck body type it requires. Both values feed fair-price
// estimation; unrecognized categories are tolerated there with neutral
// multipliers, so Load only requires the fields to be present.
type Load struct { //nolint:recvcheck //using for validation
	sizeCategory string
	bodyType     string
	guard        guard.ConstructorGuard
}

// NewLoad creates a validated Load. Both fields are required.
func NewLoad(sizeCategory string, bodyType string) (Load, error) {
	load := Load{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		load.setSizeCategory(sizeCategory),
		load.setBodyType(bodyType),
	); err != nil {
		return Load{}, err
	}

	return load, nil
}

// Validate ensures the Load was created via NewLoad.
func (l Load) Validate() error {
	return l.guard.Validate(ErrLoadIsNotConstructed)
}

// SizeCategory returns the vehicle size category (e.g. "LCV", "MCV", "HCV").
func (l Load) SizeCategory() string {
	return l.sizeCategory
}

// BodyType returns the required truck body type (e.g. "open", "tanker").
func (l Load) BodyType() string {
	return l.bodyType
}

func (l *Load) setSizeCategory(sizeCategory string) error {
	if sizeCategory == "" {
		return errs.NewValueIsRequiredError("size category")
	}
	l.sizeCategory = sizeCategory
	return nil
}

func (l *Load) setBodyType(bodyType string) error {
	if bodyType == "" {
		return errs.NewValueIsRequiredError("body type")
	}
	l.bodyType = bodyType
	return nil
}

// TrackPoint is a single entry in an order's tracking history: a position
// and the wall-clock time it was recorded. TrackPoints are append-only;
// history is never mutated or reordered.
type TrackPoint struct {
	point      kernel.GeoPoint
	recordedAt time.Time
}

// NewTrackPoint creates a TrackPoint from a validated position and timestamp.
func NewTrackPoint(point kernel.GeoPoint, recordedAt time.Time) (TrackPoint, error) {
	if err := point.Validate(); err != nil {
		return TrackPoint{}, err
	}
	if recordedAt.IsZero() {
		return TrackPoint{}, errs.NewValueIsRequiredError("recordedAt")
	}

	return TrackPoint{point: point, recordedAt: recordedAt}, nil
}

// Point returns the recorded position.
func (t TrackPoint) Point() kernel.GeoPoint {
	return t.point
}

// RecordedAt returns the time the position was recorded.
func (t TrackPoint) RecordedAt() time.Time {
	return t.recordedAt
}

// Timeline captures the delivery milestones of an order. All fields are
// optional until the corresponding milestone occurs.
type Timeline struct {
	startedAt      *time.Time
	lastProgressAt *time.Time
	completedAt    *time.Time
}

// RestoreTimeline rebuilds a Timeline from persistence.
func RestoreTimeline(startedAt, lastProgressAt, completedAt *time.Time) Timeline {
	return Timeline{
		startedAt:      startedAt,
		lastProgressAt: lastProgressAt,
		completedAt:    completedAt,
	}
}

// StartedAt returns when the driver first arrived at pickup, or nil.
func (t Timeline) StartedAt() *time.Time {
	return t.startedAt
}

// LastProgressAt returns the time of the most recent progress event, or nil.
func (t Timeline) LastProgressAt() *time.Time {
	return t.lastProgressAt
}

// CompletedAt returns when the order was delivered, or nil.
func (t Timeline) CompletedAt() *time.Time {
	return t.completedAt
}

func (t *Timeline) markStarted(now time.Time) {
	if t.startedAt == nil {
		at := now
		t.startedAt = &at
	}
	t.markProgress(now)
}

func (t *Timeline) markProgress(now time.Time) {
	at := now
	t.lastProgressAt = &at
}

func (t *Timeline) markCompleted(now time.Time) {
	if t.completedAt == nil {
		at := now
		t.completedAt = &at
	}
	t.markProgress(now)
}
