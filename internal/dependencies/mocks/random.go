package mocks

import (
	"github.com/mhalloran/golfsync/internal/dependencies/random"
)

var _ random.Random = (*MockRandom)(nil)

// MockRandom replays queued values in order. When a queue runs dry it
// returns the zero value, so forgetting to queue shows up as an empty
// round code rather than a hang.
type MockRandom struct {
	ints    []int
	strings []string
}

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// QueueIntn appends values for Intn to replay.
func (r *MockRandom) QueueIntn(values ...int) {
	r.ints = append(r.ints, values...)
}

// QueueString appends values for String to replay.
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}

func (r *MockRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}
