//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingCommands(uow *fakeUoW, clk clock.Clock, notifier commands.BookingNotifier) commands.BookingCommands {
	return commands.NewBookingCommands(uow, uow.tx.jobs, clk, notifier, 3)
}

func createParams(slot *shared.SlotSnapshot) commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:     slot.ID,
		CustomerID: uuid.New(),
		SessionID:  "anon:" + uuid.NewString(),
		AdultCount: 2,
		ChildCount: 1,
		TotalCount: 3,
		TotalCents: 15000,
	}
}

func TestBookingCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("直接予約は確定減算と予約行を1トランザクションで書く", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		params := createParams(slot)

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		bookingID, err := cmd.Create(context.Background(), params)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, bookingID)

		require.Len(t, uow.tx.slots.confirms, 1)
		assert.Equal(t, slot.ID, uow.tx.slots.confirms[0].slotID)
		assert.Equal(t, int32(3), uow.tx.slots.confirms[0].amount)

		require.Len(t, uow.tx.bookings.created, 1)
		created := uow.tx.bookings.created[0]
		assert.Equal(t, bookingID, created.ID())
		assert.Equal(t, slot.TenantID, created.TenantID())
		assert.Equal(t, slot.ServiceID, created.ServiceID())
		assert.Equal(t, booking.StatusConfirmed, created.Status())
	})

	t.Run("確定後に請求書ジョブが積まれる", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		bookingID, err := cmd.Create(context.Background(), createParams(slot))
		require.NoError(t, err)

		require.Len(t, uow.tx.jobs.enqueued, 1)
		job := uow.tx.jobs.enqueued[0]
		assert.Equal(t, retryjob.KindInvoiceIssue, job.JobKind())
		payload, ok := job.Payload().(retryjob.InvoiceIssuePayload)
		require.True(t, ok)
		assert.Equal(t, bookingID, payload.BookingID)
	})

	t.Run("通知は確定イベントを運ぶ", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		params := createParams(slot)
		notifier := newFakeNotifier()

		cmd := newBookingCommands(uow, clock.NewMockClock(now), notifier)
		bookingID, err := cmd.Create(context.Background(), params)
		require.NoError(t, err)

		select {
		case event := <-notifier.published:
			assert.Equal(t, bookingID, event.BookingID)
			assert.Equal(t, slot.TenantID, event.TenantID)
			assert.Equal(t, params.SlotID, event.SlotID)
			assert.Equal(t, int32(3), event.TotalCount)
		case <-time.After(time.Second):
			t.Fatal("confirmation event was never published")
		}
	})

	t.Run("ジョブ登録失敗でも予約は成功する", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.jobs.enqueueErr = assert.AnError

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		bookingID, err := cmd.Create(context.Background(), createParams(slot))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, bookingID)
	})

	t.Run("コミット直後に切断されてもジョブは積まれる", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot

		ctx, cancel := context.WithCancel(context.Background())
		duow := &disconnectingUoW{fakeUoW: uow, cancel: cancel}

		cmd := commands.NewBookingCommands(duow, uow.tx.jobs, clock.NewMockClock(now), nil, 3)
		bookingID, err := cmd.Create(ctx, createParams(slot))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, bookingID)

		require.Len(t, uow.tx.jobs.enqueued, 1)
		payload := uow.tx.jobs.enqueued[0].Payload().(retryjob.InvoiceIssuePayload)
		assert.Equal(t, bookingID, payload.BookingID)
	})

	t.Run("人数検証エラー", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)

		tests := []struct {
			name   string
			mutate func(*commands.CreateBookingParams)
		}{
			{"内訳と合計の不一致", func(p *commands.CreateBookingParams) { p.TotalCount = 5 }},
			{"合計ゼロ", func(p *commands.CreateBookingParams) { p.AdultCount, p.ChildCount, p.TotalCount = 0, 0, 0 }},
			{"負の人数", func(p *commands.CreateBookingParams) { p.AdultCount, p.TotalCount = -1, 0 }},
			{"負の金額", func(p *commands.CreateBookingParams) { p.TotalCents = -1 }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				params := createParams(slot)
				tt.mutate(&params)
				_, err := cmd.Create(context.Background(), params)
				assert.ErrorIs(t, err, commands.ErrInvalidBookingRequest)
			})
		}
		assert.Empty(t, uow.tx.bookings.created)
	})

	t.Run("スロット不存在", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), createParams(slot))
		assert.ErrorIs(t, err, commands.ErrSlotNotFound)
	})

	t.Run("停止中テナントは拒否される", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.reads.tenant = &shared.TenantSnapshot{ID: slot.TenantID, IsActive: false}

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), createParams(slot))
		assert.ErrorIs(t, err, commands.ErrTenantDeactivated)
		assert.Empty(t, uow.tx.slots.confirms)
	})

	t.Run("オファー検証", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()

		t.Run("不存在", func(t *testing.T) {
			uow := newFakeUoW()
			uow.tx.slots.snapshot = slot
			params := createParams(slot)
			missing := uuid.New()
			params.OfferID = &missing

			cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
			_, err := cmd.Create(context.Background(), params)
			assert.ErrorIs(t, err, commands.ErrInvalidOffer)
		})

		t.Run("非アクティブ", func(t *testing.T) {
			uow := newFakeUoW()
			uow.tx.slots.snapshot = slot
			offerID := uuid.New()
			uow.tx.reads.offer = &shared.OfferSnapshot{ID: offerID, ServiceID: slot.ServiceID, IsActive: false}
			params := createParams(slot)
			params.OfferID = &offerID

			cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
			_, err := cmd.Create(context.Background(), params)
			assert.ErrorIs(t, err, commands.ErrInvalidOffer)
		})

		t.Run("別サービスのオファー", func(t *testing.T) {
			uow := newFakeUoW()
			uow.tx.slots.snapshot = slot
			offerID := uuid.New()
			uow.tx.reads.offer = &shared.OfferSnapshot{ID: offerID, ServiceID: uuid.New(), IsActive: true}
			params := createParams(slot)
			params.OfferID = &offerID

			cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
			_, err := cmd.Create(context.Background(), params)
			assert.ErrorIs(t, err, commands.ErrInvalidOffer)
		})

		t.Run("有効なオファーは通る", func(t *testing.T) {
			uow := newFakeUoW()
			uow.tx.slots.snapshot = slot
			offerID := uuid.New()
			uow.tx.reads.offer = &shared.OfferSnapshot{ID: offerID, ServiceID: slot.ServiceID, IsActive: true}
			params := createParams(slot)
			params.OfferID = &offerID

			cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
			_, err := cmd.Create(context.Background(), params)
			assert.NoError(t, err)
		})
	})

	t.Run("容量不足で確定できない", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.slots.confirmOK = false

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), createParams(slot))
		assert.ErrorIs(t, err, commands.ErrInsufficientCapacity)
		assert.Empty(t, uow.tx.bookings.created)
		assert.Empty(t, uow.tx.jobs.enqueued)
	})
}

func TestBookingCreateWithLock(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	lockedParams := func(slot *shared.SlotSnapshot, lockSnap *shared.LockSnapshot) commands.CreateBookingParams {
		params := createParams(slot)
		params.SessionID = lockSnap.SessionID
		params.TotalCount = lockSnap.ReservedCapacity
		params.AdultCount = lockSnap.ReservedCapacity
		params.ChildCount = 0
		lockID := lockSnap.ID
		params.LockID = &lockID
		return params
	}

	t.Run("ロック消費は削除と返却と確定を同一トランザクションで行う", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		lockSnap := builder.NewLockBuilder().With(func(b *builder.LockBuilder) {
			b.SlotID = slot.ID
			b.AcquiredAt = now.Add(-time.Minute)
			b.TTL = 10 * time.Minute
			b.ReservedCapacity = 3
		}).Snapshot()

		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.locks.snapshot = lockSnap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		bookingID, err := cmd.Create(context.Background(), lockedParams(slot, lockSnap))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, bookingID)

		assert.Equal(t, []uuid.UUID{lockSnap.ID}, uow.tx.locks.deleted)
		require.Len(t, uow.tx.slots.releases, 1)
		assert.Equal(t, int32(3), uow.tx.slots.releases[0].amount)
		require.Len(t, uow.tx.slots.confirms, 1)
		assert.Equal(t, int32(3), uow.tx.slots.confirms[0].amount)
	})

	t.Run("期限切れロック", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		lockSnap := builder.NewLockBuilder().With(func(b *builder.LockBuilder) {
			b.SlotID = slot.ID
			b.AcquiredAt = now.Add(-time.Hour)
			b.TTL = time.Minute
		}).Snapshot()

		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.locks.snapshot = lockSnap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), lockedParams(slot, lockSnap))
		assert.ErrorIs(t, err, commands.ErrLockExpiredOrInvalid)
		assert.Empty(t, uow.tx.locks.deleted)
		assert.Empty(t, uow.tx.bookings.created)
	})

	t.Run("消えたロック", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot

		params := createParams(slot)
		missing := uuid.New()
		params.LockID = &missing

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrLockExpiredOrInvalid)
	})

	t.Run("他セッションのロック", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		lockSnap := builder.NewLockBuilder().With(func(b *builder.LockBuilder) {
			b.SlotID = slot.ID
			b.AcquiredAt = now
		}).Snapshot()

		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.locks.snapshot = lockSnap

		params := lockedParams(slot, lockSnap)
		params.SessionID = "anon:" + uuid.NewString()

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrSessionMismatch)
	})

	t.Run("別スロットのロック", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		lockSnap := builder.NewLockBuilder().With(func(b *builder.LockBuilder) {
			b.AcquiredAt = now
		}).Snapshot() // SlotID differs from slot.ID

		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.locks.snapshot = lockSnap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		params := lockedParams(slot, lockSnap)
		params.SlotID = slot.ID

		_, err := cmd.Create(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrSlotMismatch)
	})

	t.Run("人数とロック量の不一致", func(t *testing.T) {
		t.Parallel()
		slot := builder.NewSlotBuilder().Snapshot()
		lockSnap := builder.NewLockBuilder().With(func(b *builder.LockBuilder) {
			b.SlotID = slot.ID
			b.AcquiredAt = now
			b.ReservedCapacity = 2
		}).Snapshot()

		uow := newFakeUoW()
		uow.tx.slots.snapshot = slot
		uow.tx.locks.snapshot = lockSnap

		params := lockedParams(slot, lockSnap)
		params.AdultCount, params.ChildCount, params.TotalCount = 3, 1, 4

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		_, err := cmd.Create(context.Background(), params)
		assert.ErrorIs(t, err, commands.ErrQuantityMismatch)
	})
}

func TestBookingTransitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("チェックインで状態が更新される", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		require.NoError(t, cmd.CheckIn(context.Background(), snap.ID))

		require.Len(t, uow.tx.bookings.statusUpdates, 1)
		assert.Equal(t, booking.StatusCheckedIn, uow.tx.bookings.statusUpdates[0].status)
	})

	t.Run("チェックイン済みからの完了", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Status = booking.StatusCheckedIn
		}).Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		require.NoError(t, cmd.Complete(context.Background(), snap.ID))
		assert.Equal(t, booking.StatusCompleted, uow.tx.bookings.statusUpdates[0].status)
	})

	t.Run("確定前の完了は拒否される", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().Snapshot() // confirmed
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		err := cmd.Complete(context.Background(), snap.ID)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Empty(t, uow.tx.bookings.statusUpdates)
	})

	t.Run("無断キャンセル扱い", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		require.NoError(t, cmd.MarkNoShow(context.Background(), snap.ID))
		assert.Equal(t, booking.StatusNoShow, uow.tx.bookings.statusUpdates[0].status)
	})

	t.Run("不存在の予約", func(t *testing.T) {
		t.Parallel()
		uow := newFakeUoW()

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		err := cmd.CheckIn(context.Background(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestBookingRecordPayment(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("全額支払い", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		require.NoError(t, cmd.RecordPayment(context.Background(), snap.ID, false))

		require.Len(t, uow.tx.bookings.paymentUpdates, 1)
		assert.Equal(t, booking.PaymentPaid, uow.tx.bookings.paymentUpdates[0].status)
	})

	t.Run("一部支払い", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		require.NoError(t, cmd.RecordPayment(context.Background(), snap.ID, true))
		assert.Equal(t, booking.PaymentPartiallyPaid, uow.tx.bookings.paymentUpdates[0].status)
	})

	t.Run("支払い済みへの再支払いは拒否される", func(t *testing.T) {
		t.Parallel()
		snap := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.PaymentStatus = booking.PaymentPaid
		}).Snapshot()
		uow := newFakeUoW()
		uow.tx.bookings.snapshot = snap

		cmd := newBookingCommands(uow, clock.NewMockClock(now), nil)
		err := cmd.RecordPayment(context.Background(), snap.ID, false)
		assert.ErrorIs(t, err, commands.ErrInvalidTransition)
		assert.Empty(t, uow.tx.bookings.paymentUpdates)
	})
}
