package booking

import "errors"

var (
	ErrNegativeHeadCount = errors.New("head counts cannot be negative")
	ErrHeadCountMismatch = errors.New("total must equal adult plus child")
	ErrEmptyHeadCount    = errors.New("total head count must be at least 1")
	ErrNegativeAmount    = errors.New("money cannot be negative")
)

// HeadCount carries the adult/child/total split for a booking.
// total == adult + child holds for every constructed value.
type HeadCount struct {
	adult int32
	child int32
	total int32
}

func NewHeadCount(adult, child, total int32) (HeadCount, error) {
	if adult < 0 || child < 0 {
		return HeadCount{}, ErrNegativeHeadCount
	}
	if adult+child != total {
		return HeadCount{}, ErrHeadCountMismatch
	}
	if total < 1 {
		return HeadCount{}, ErrEmptyHeadCount
	}
	return HeadCount{adult: adult, child: child, total: total}, nil
}

func (h HeadCount) Adult() int32 { return h.adult }
func (h HeadCount) Child() int32 { return h.child }
func (h HeadCount) Total() int32 { return h.total }

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 { return m.cents }
