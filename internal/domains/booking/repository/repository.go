package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Booking=MockBookingRepository

import (
	"context"
	"errors"
	"fmt"
	"scheduler/infras/otel"
	"scheduler/infras/postgres"
	"scheduler/internal/domains/booking/model"
	linkRepo "scheduler/internal/domains/link/repository"
	"scheduler/internal/scheduling"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	gRepo "scheduler/shared/repository"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrUsageLimitReached is returned by Reserve when the link has no bookings left.
var ErrUsageLimitReached = errors.New("scheduling link usage limit reached")

// advisory lock namespaces. Owner locks are always taken before client locks.
const (
	lockNamespaceOwner  = 1
	lockNamespaceClient = 2

	lockQuery = "SELECT pg_advisory_xact_lock($1, hashtext($2))"
)

// Reservation is a booking about to be written together with the check that must hold when it is.
type Reservation struct {
	Booking model.Booking
	// Buffer widens the search for the owner's bookings around the requested interval.
	Buffer scheduling.Buffer
	// Check sees every blocking booking of the owner or the client near the requested interval.
	Check func(existing []scheduling.Commitment) error
	// CountUsage counts the booking against its link's usage limit.
	CountUsage bool
}

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	// Reserve runs the check and the insert as one transaction serialized per owner and per client.
	Reserve(ctx context.Context, reservation Reservation) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	links linkRepo.Link
	otel  otel.Otel
}

func New(db *postgres.Connection, links linkRepo.Link, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		links:      links,
		otel:       otel,
	}
}

// OverlapFilter selects blocking bookings of owner or client that intersect span.
func OverlapFilter(ownerID, clientEmail string, span scheduling.Interval) gDto.FilterGroup {
	parties := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{Field: model.FieldOwnerID, Value: ownerID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if clientEmail != "" {
		parties.Filters = append(parties.Filters, gDto.Filter{
			Field: model.FieldClientEmail, Value: strings.ToLower(clientEmail), Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			parties,
			gDto.Filter{ArgName: "span_end", Field: model.FieldStartAt, Value: span.End, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: "span_start", Field: model.FieldEndAt, Value: span.Start, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: string(scheduling.StatusCancelled), Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldApprovalStatus, Value: string(scheduling.ApprovalRejected), Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
		},
	}
}

func (r *repositoryImpl) lock(ctx context.Context, tx *sqlx.Tx, namespace int, key string) error {
	if _, err := tx.ExecContext(ctx, lockQuery, namespace, key); err != nil {
		return fmt.Errorf("failed to take booking lock: %w", err)
	}

	return nil
}

func (r *repositoryImpl) Reserve(ctx context.Context, reservation Reservation) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking := reservation.Booking
	booking.ClientEmail = strings.ToLower(booking.ClientEmail)

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.lock(ctx, tx, lockNamespaceOwner, booking.OwnerID); err != nil {
			return err
		}

		if booking.ClientEmail != "" {
			if err := r.lock(ctx, tx, lockNamespaceClient, booking.ClientEmail); err != nil {
				return err
			}
		}

		span := booking.Interval().Pad(reservation.Buffer)

		existing, err := r.GetAllTx(ctx, tx, gDto.QueryParams{}, OverlapFilter(booking.OwnerID, booking.ClientEmail, span))
		if err != nil {
			return err
		}

		commitments := make([]scheduling.Commitment, len(existing))
		for i, b := range existing {
			commitments[i] = b.Commitment()
		}

		if reservation.Check != nil {
			if err = reservation.Check(commitments); err != nil {
				return err
			}
		}

		if err = r.InsertTx(ctx, tx, booking); err != nil {
			if gRepo.IsPqError(err, constant.PqErrorCodeExclusionViolation) {
				return fmt.Errorf("%w: %w", scheduling.ErrConflict, err)
			}

			return err
		}

		if !reservation.CountUsage || booking.LinkID == "" {
			return nil
		}

		counted, err := r.links.IncrementUsageTx(ctx, tx, booking.LinkID)
		if err != nil {
			return err
		}

		if !counted {
			return ErrUsageLimitReached
		}

		return nil
	})
}
